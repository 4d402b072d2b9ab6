package domain

import (
	"errors"
	"strings"

	"agendaConsole/internal/shared/validation"
)

// ErrAlreadyReported is returned when creating a report for an appointment that has one.
var ErrAlreadyReported = errors.New("appointment already has a report")

const AlreadyReportedMessage = "Esta cita ya tiene un reporte."

type Report struct {
	ID               int64  `json:"id"`
	Description      string `json:"description"`
	IsForEventCancel bool   `json:"isForEventCancel"`
	HasRecovery      bool   `json:"hasRecovery"`
	CreatedAt        string `json:"createdAt,omitempty"`
	AppointmentID    int64  `json:"appointmentId"`
	CreatedByID      int64  `json:"createdById,omitempty"`
}

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AppointmentRef struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Detail is GET /reports/:id and the latest report of an appointment.
type Detail struct {
	ID               int64           `json:"id"`
	Description      string          `json:"description"`
	IsForEventCancel bool            `json:"isForEventCancel"`
	HasRecovery      bool            `json:"hasRecovery"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	AppointmentID    int64           `json:"appointmentId"`
	CreatedBy        *Author         `json:"createdBy"`
	Appointment      *AppointmentRef `json:"appointment"`
}

// ExistsMap tells, per appointment id, whether at least one report exists.
type ExistsMap map[int64]bool

type Form struct {
	Description      string `json:"description" validate:"required,max=1000"`
	IsForEventCancel bool   `json:"isForEventCancel"`
	HasRecovery      bool   `json:"hasRecovery"`
	AppointmentID    int64  `json:"appointmentId" validate:"gte=1"`
}

var FormMessages = validation.Messages{
	"description.required": "La descripción es obligatoria",
	"description.max":      "Máximo 1000 caracteres",
	"appointmentId.gte":    "appointmentId inválido",
}

func DefaultForm() Form {
	return Form{}
}

func ToForm(d Detail) Form {
	return Form{
		Description:      d.Description,
		IsForEventCancel: d.IsForEventCancel,
		HasRecovery:      d.HasRecovery,
		AppointmentID:    d.AppointmentID,
	}
}

func (f Form) Validate(editing bool) error {
	n := f
	n.Description = strings.TrimSpace(f.Description)
	return validation.Struct(n, FormMessages)
}

// Payload is sent as-is; the booleans are always present.
func (f Form) Payload() Form {
	n := f
	n.Description = strings.TrimSpace(f.Description)
	return n
}
