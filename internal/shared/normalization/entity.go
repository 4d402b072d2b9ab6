package normalization

import "strings"

// entityAliases maps the spellings the front-end and backend events use to the
// canonical console resource names.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"client":  "clients",
	"clients": "clients",
	"cliente": "clients",

	"user":          "users",
	"users":         "users",
	"professional":  "users",
	"professionals": "users",
	"profesional":   "users",

	"service":  "services",
	"services": "services",

	"appointment":  "appointments",
	"appointments": "appointments",
	"cita":         "appointments",
	"citas":        "appointments",

	"report":  "reports",
	"reports": "reports",
}

var validEntities = []string{"clients", "users", "services", "appointments", "reports"}

// NormalizeEntity converts various entity name formats to their canonical form.
//
//	NormalizeEntity("Appointment") => "appointments"
//	NormalizeEntity("professional") => "users"
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

func IsValidEntity(raw string) bool {
	normalized := NormalizeEntity(raw)
	for _, entity := range validEntities {
		if entity == normalized {
			return true
		}
	}
	return false
}

func GetAllValidEntities() []string {
	out := make([]string, len(validEntities))
	copy(out, validEntities)
	return out
}
