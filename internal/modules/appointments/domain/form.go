package domain

import (
	"strings"

	"agendaConsole/internal/shared/validation"
)

const (
	MissingProfessionalMessage = "Selecciona un profesional"
	MissingClientMessage       = "Selecciona un cliente"
)

// Form is the editable shape of an appointment. Related ids stay optional here so edits can
// be partial; creation enforces them when building the payload.
type Form struct {
	Date        string `json:"date" validate:"required"`
	Status      Status `json:"status" validate:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Tag         string `json:"tag"`
	IsRecurring bool   `json:"isRecurring"`
	UserID      *int64 `json:"userId"`
	ClientID    *int64 `json:"clientId"`
	ServiceID   *int64 `json:"serviceId"`
}

type CreatePayload struct {
	Date        string `json:"date"`
	Status      Status `json:"status"`
	Tag         string `json:"tag,omitempty"`
	IsRecurring bool   `json:"isRecurring"`
	UserID      int64  `json:"userId"`
	ClientID    int64  `json:"clientId"`
	ServiceID   *int64 `json:"serviceId,omitempty"`
}

// UpdatePayload is partial: date-only, status-only or any combination.
type UpdatePayload struct {
	Date        string  `json:"date,omitempty"`
	Status      Status  `json:"status,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	IsRecurring *bool   `json:"isRecurring,omitempty"`
	UserID      *int64  `json:"userId,omitempty"`
	ClientID    *int64  `json:"clientId,omitempty"`
	ServiceID   *int64  `json:"serviceId,omitempty"`
}

var FormMessages = validation.Messages{
	"date.required":   "La fecha es obligatoria",
	"status.required": "Selecciona un estado",
	"status.oneof":    "Estado inválido",
}

func DefaultForm() Form {
	return Form{Status: StatusPending}
}

func ToForm(a Appointment) Form {
	form := Form{
		Date:        a.Date,
		Status:      a.Status,
		Tag:         a.Tag,
		IsRecurring: a.IsRecurring,
	}
	if a.User != nil {
		form.UserID = idPtr(a.User.ID)
	}
	if a.Client != nil {
		form.ClientID = idPtr(a.Client.ID)
	}
	if a.Service != nil {
		form.ServiceID = idPtr(a.Service.ID)
	}
	return form
}

// Validate checks the schema only; it is the same in both modes. Missing ids are a
// create-time concern of CreatePayload.
func (f Form) Validate(_ bool) error {
	return validation.Struct(f.normalized(), FormMessages)
}

// CreatePayload requires a professional and a client; their absence is reported per field.
func (f Form) CreatePayload() (CreatePayload, error) {
	n := f.normalized()
	missing := validation.FieldErrors{}
	if n.UserID == nil {
		missing["userId"] = MissingProfessionalMessage
	}
	if n.ClientID == nil {
		missing["clientId"] = MissingClientMessage
	}
	if len(missing) > 0 {
		return CreatePayload{}, missing
	}
	return CreatePayload{
		Date:        n.Date,
		Status:      n.Status,
		Tag:         n.Tag,
		IsRecurring: n.IsRecurring,
		UserID:      *n.UserID,
		ClientID:    *n.ClientID,
		ServiceID:   n.ServiceID,
	}, nil
}

// UpdatePayload sends every field of the form, related ids only when chosen.
func (f Form) UpdatePayload() UpdatePayload {
	n := f.normalized()
	tag := n.Tag
	recurring := n.IsRecurring
	return UpdatePayload{
		Date:        n.Date,
		Status:      n.Status,
		Tag:         &tag,
		IsRecurring: &recurring,
		UserID:      n.UserID,
		ClientID:    n.ClientID,
		ServiceID:   n.ServiceID,
	}
}

func ReschedulePayload(date string) UpdatePayload {
	return UpdatePayload{Date: strings.TrimSpace(date)}
}

func StatusPayload(status Status) UpdatePayload {
	return UpdatePayload{Status: status}
}

func (f Form) normalized() Form {
	out := f
	out.Date = strings.TrimSpace(f.Date)
	out.Status = NormalizeStatus(string(f.Status))
	out.Tag = strings.TrimSpace(f.Tag)
	out.UserID = positive(f.UserID)
	out.ClientID = positive(f.ClientID)
	out.ServiceID = positive(f.ServiceID)
	return out
}

func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return idPtr(*id)
}

func idPtr(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
