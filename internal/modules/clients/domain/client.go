package domain

import (
	"strings"

	"agendaConsole/internal/shared/validation"
)

// Client is a customer of the business as returned by GET /clients/:id.
type Client struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// HistoryEntry is one row of GET /clients/:id/appointments.
type HistoryEntry struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time,omitempty"`
	Status string `json:"status,omitempty"`
}

// Form holds the editable fields of a client. Email may be left blank.
type Form struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// Payload is the body of POST and PUT /clients.
type Payload struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

var FormMessages = validation.Messages{
	"name.required": "El nombre es obligatorio",
	"email.email":   "Email inválido",
}

func DefaultForm() Form {
	return Form{}
}

func ToForm(c Client) Form {
	return Form{Name: c.Name, Email: c.Email, Phone: c.Phone, Notes: c.Notes}
}

// Validate checks the form; the client schema is the same for create and edit.
func (f Form) Validate(editing bool) error {
	return validation.Struct(f.normalized(), FormMessages)
}

func (f Form) Payload() Payload {
	n := f.normalized()
	return Payload{Name: n.Name, Email: n.Email, Phone: n.Phone, Notes: n.Notes}
}

func (f Form) normalized() Form {
	return Form{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Phone: strings.TrimSpace(f.Phone),
		Notes: strings.TrimSpace(f.Notes),
	}
}

// OptionLabel is the text shown in client selects.
func (c Client) OptionLabel() string {
	return c.Name
}
