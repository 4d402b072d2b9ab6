package domain

import "strings"

// Status is the lifecycle of an appointment as exposed by the REST API.
type Status string

const (
	StatusUnknown   Status = ""
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var allowedStatuses = map[string]Status{
	string(StatusPending):   StatusPending,
	string(StatusConfirmed): StatusConfirmed,
	string(StatusCancelled): StatusCancelled,
	string(StatusCompleted): StatusCompleted,
}

// NormalizeStatus returns the canonical Status for the given input. Unknown statuses are
// uppercased and returned as-is.
func NormalizeStatus(value string) Status {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return StatusUnknown
	}
	if status, ok := allowedStatuses[trimmed]; ok {
		return status
	}
	return Status(trimmed)
}

// Known reports whether the status is one the backend accepts.
func (s Status) Known() bool {
	_, ok := allowedStatuses[string(s)]
	return ok
}

// Label is the Spanish text used in the status select.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusConfirmed:
		return "Confirmada"
	case StatusCompleted:
		return "Completada"
	case StatusCancelled:
		return "Cancelada"
	default:
		return string(s)
	}
}
