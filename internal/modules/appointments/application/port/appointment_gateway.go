package port

import (
	"context"

	"agendaConsole/internal/modules/appointments/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
)

// AppointmentGateway is the backend side of the calendar and the appointment form.
type AppointmentGateway interface {
	Search(ctx context.Context, cred auth.Credential, filters domain.Filters, page, limit int) (rest.Page[domain.Appointment], error)
	Get(ctx context.Context, cred auth.Credential, id int64) (domain.Appointment, error)
	CreateAppointment(ctx context.Context, cred auth.Credential, payload domain.CreatePayload) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, cred auth.Credential, id int64, payload domain.UpdatePayload) (domain.Appointment, error)
	Delete(ctx context.Context, cred auth.Credential, id int64) error
}
