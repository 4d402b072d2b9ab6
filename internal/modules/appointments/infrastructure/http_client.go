package infrastructure

import (
	"context"
	"strconv"

	"agendaConsole/internal/modules/appointments/application/port"
	"agendaConsole/internal/modules/appointments/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
)

// AppointmentHTTPClient talks to /appointments.
type AppointmentHTTPClient struct {
	*rest.Resource[domain.Appointment]
}

func NewAppointmentHTTPClient(client *rest.Client, pageSize int) *AppointmentHTTPClient {
	return &AppointmentHTTPClient{Resource: rest.NewResource[domain.Appointment](client, "/appointments", pageSize)}
}

// Search lists appointments with the calendar filters applied.
func (c *AppointmentHTTPClient) Search(ctx context.Context, cred auth.Credential, filters domain.Filters, page, limit int) (rest.Page[domain.Appointment], error) {
	return c.List(ctx, cred, FilterQuery(filters, page, limit))
}

func (c *AppointmentHTTPClient) CreateAppointment(ctx context.Context, cred auth.Credential, payload domain.CreatePayload) (domain.Appointment, error) {
	return c.Create(ctx, cred, payload)
}

func (c *AppointmentHTTPClient) UpdateAppointment(ctx context.Context, cred auth.Credential, id int64, payload domain.UpdatePayload) (domain.Appointment, error) {
	return c.Update(ctx, cred, id, payload)
}

// FilterQuery converts calendar filters into the list query; zero values are left out.
func FilterQuery(filters domain.Filters, page, limit int) rest.PagedQuery {
	values := map[string]string{
		"from":   filters.From,
		"to":     filters.To,
		"status": string(filters.Status),
	}
	if filters.UserID > 0 {
		values["userId"] = strconv.FormatInt(filters.UserID, 10)
	}
	if filters.ClientID > 0 {
		values["clientId"] = strconv.FormatInt(filters.ClientID, 10)
	}
	return rest.PagedQuery{Page: page, Limit: limit, Filters: values}
}

var _ port.AppointmentGateway = (*AppointmentHTTPClient)(nil)
