package domain

import (
	"strings"

	"agendaConsole/internal/shared/validation"
)

// Service is a bookable service; Duration is in minutes.
type Service struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Duration    int      `json:"duration"`
	Price       *float64 `json:"price,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

type Form struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"max=300"`
	Duration    int      `json:"duration" validate:"gte=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

type Payload struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

var FormMessages = validation.Messages{
	"name.required":   "El nombre es obligatorio",
	"description.max": "Máximo 300 caracteres",
	"duration.gte":    "Debe durar al menos 1 minuto",
	"price.gte":       "El precio no puede ser negativo",
}

const DefaultDuration = 30

func DefaultForm() Form {
	return Form{Duration: DefaultDuration}
}

func ToForm(s Service) Form {
	return Form{Name: s.Name, Description: s.Description, Duration: s.Duration, Price: s.Price}
}

func (f Form) Validate(editing bool) error {
	return validation.Struct(f.normalized(), FormMessages)
}

func (f Form) Payload() Payload {
	n := f.normalized()
	return Payload{Name: n.Name, Description: n.Description, Duration: n.Duration, Price: n.Price}
}

func (f Form) normalized() Form {
	out := f
	out.Name = strings.TrimSpace(f.Name)
	out.Description = strings.TrimSpace(f.Description)
	return out
}

func (s Service) OptionLabel() string {
	return s.Name
}
