package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appointmentport "agendaConsole/internal/modules/appointments/application/port"
	appointments "agendaConsole/internal/modules/appointments/domain"
	clients "agendaConsole/internal/modules/clients/domain"
	clientsinfra "agendaConsole/internal/modules/clients/infrastructure"
	reports "agendaConsole/internal/modules/reports/domain"
	reportsinfra "agendaConsole/internal/modules/reports/infrastructure"
	services "agendaConsole/internal/modules/services/domain"
	servicesinfra "agendaConsole/internal/modules/services/infrastructure"
	users "agendaConsole/internal/modules/users/domain"
	usersinfra "agendaConsole/internal/modules/users/infrastructure"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
)

const (
	AppointmentCreatedMessage = "Cita creada"
	AppointmentUpdatedMessage = "Cita actualizada"
	AppointmentFailedMessage  = "Ocurrió un error al guardar la cita"
	ReportCreatedMessage      = "Reporte creado correctamente"
	ReportFailedMessage       = "No se pudo crear el reporte"
)

// Deps are the backends and outputs shared by every entity form.
type Deps struct {
	Credentials  auth.CredentialSource
	Clients      *clientsinfra.ClientHTTPClient
	Users        *usersinfra.UserHTTPClient
	Services     *servicesinfra.ServiceHTTPClient
	Appointments appointmentport.AppointmentGateway
	Reports      *reportsinfra.ReportHTTPClient
	Calendars    appointmentport.CalendarRefresher
	Notifier     notify.Notifier
	Navigator    notify.Navigator
	Logger       *slog.Logger
}

func (d Deps) credential() auth.Credential {
	if d.Credentials == nil {
		return auth.Anonymous
	}
	return d.Credentials.Credential()
}

// Builders returns a session builder per entity whose backend is configured.
func Builders(deps Deps) map[string]Builder {
	builders := map[string]Builder{}
	if deps.Clients != nil {
		builders["clients"] = func() Session { return NewClientForm(deps) }
	}
	if deps.Users != nil {
		builders["users"] = func() Session { return NewUserForm(deps) }
	}
	if deps.Services != nil {
		builders["services"] = func() Session { return NewServiceForm(deps) }
	}
	if deps.Appointments != nil {
		builders["appointments"] = func() Session { return NewAppointmentForm(deps) }
	}
	if deps.Reports != nil {
		builders["reports"] = func() Session { return NewReportForm(deps) }
	}
	return builders
}

func NewClientForm(deps Deps) *Controller[clients.Form, clients.Client] {
	return NewController(Config[clients.Form, clients.Client]{
		Entity:    "clients",
		ListRoute: "/clients",
		Defaults:  clients.DefaultForm,
		FetchByID: func(ctx context.Context, id int64) (clients.Client, error) {
			return deps.Clients.Get(ctx, deps.credential(), id)
		},
		MapDetail: clients.ToForm,
		Create: func(ctx context.Context, values clients.Form) error {
			_, err := deps.Clients.CreateClient(ctx, deps.credential(), values)
			return err
		},
		Update: func(ctx context.Context, id int64, values clients.Form) error {
			_, err := deps.Clients.UpdateClient(ctx, deps.credential(), id, values)
			return err
		},
		Validate:  clients.Form.Validate,
		Notifier:  deps.Notifier,
		Navigator: deps.Navigator,
		Logger:    deps.Logger,
	})
}

func NewUserForm(deps Deps) *Controller[users.Form, users.User] {
	return NewController(Config[users.Form, users.User]{
		Entity:    "users",
		ListRoute: "/users",
		Defaults:  users.DefaultForm,
		FetchByID: func(ctx context.Context, id int64) (users.User, error) {
			return deps.Users.Get(ctx, deps.credential(), id)
		},
		MapDetail: users.ToForm,
		Create: func(ctx context.Context, values users.Form) error {
			_, err := deps.Users.CreateUser(ctx, deps.credential(), values)
			return err
		},
		Update: func(ctx context.Context, id int64, values users.Form) error {
			_, err := deps.Users.UpdateUser(ctx, deps.credential(), id, values)
			return err
		},
		Validate:  users.Form.Validate,
		Notifier:  deps.Notifier,
		Navigator: deps.Navigator,
		Logger:    deps.Logger,
	})
}

func NewServiceForm(deps Deps) *Controller[services.Form, services.Service] {
	return NewController(Config[services.Form, services.Service]{
		Entity:    "services",
		ListRoute: "/services",
		Defaults:  services.DefaultForm,
		FetchByID: func(ctx context.Context, id int64) (services.Service, error) {
			return deps.Services.Get(ctx, deps.credential(), id)
		},
		MapDetail: services.ToForm,
		Create: func(ctx context.Context, values services.Form) error {
			_, err := deps.Services.CreateService(ctx, deps.credential(), values)
			return err
		},
		Update: func(ctx context.Context, id int64, values services.Form) error {
			_, err := deps.Services.UpdateService(ctx, deps.credential(), id, values)
			return err
		},
		Validate:  services.Form.Validate,
		Notifier:  deps.Notifier,
		Navigator: deps.Navigator,
		Logger:    deps.Logger,
	})
}

// NewAppointmentForm refreshes every open calendar after a successful save. Creation
// rejects a missing professional or client per field.
func NewAppointmentForm(deps Deps) *Controller[appointments.Form, appointments.Appointment] {
	return NewController(Config[appointments.Form, appointments.Appointment]{
		Entity:    "appointments",
		ListRoute: "/appointments",
		Defaults:  appointments.DefaultForm,
		FetchByID: func(ctx context.Context, id int64) (appointments.Appointment, error) {
			return deps.Appointments.Get(ctx, deps.credential(), id)
		},
		MapDetail: appointments.ToForm,
		Create: func(ctx context.Context, values appointments.Form) error {
			payload, err := values.CreatePayload()
			if err != nil {
				return err
			}
			_, err = deps.Appointments.CreateAppointment(ctx, deps.credential(), payload)
			return err
		},
		Update: func(ctx context.Context, id int64, values appointments.Form) error {
			_, err := deps.Appointments.UpdateAppointment(ctx, deps.credential(), id, values.UpdatePayload())
			return err
		},
		Validate:       appointments.Form.Validate,
		CreatedMessage: AppointmentCreatedMessage,
		UpdatedMessage: AppointmentUpdatedMessage,
		FailureMessage: func(error) string { return AppointmentFailedMessage },
		OnSuccess: func() {
			if deps.Calendars != nil {
				deps.Calendars.RefetchAll(context.Background())
			}
		},
		Notifier:  deps.Notifier,
		Navigator: deps.Navigator,
		Logger:    deps.Logger,
	})
}

// NewReportForm refuses to create a second report for the same appointment.
func NewReportForm(deps Deps) *Controller[reports.Form, reports.Detail] {
	return NewController(Config[reports.Form, reports.Detail]{
		Entity:    "reports",
		ListRoute: "/reportes",
		Defaults:  reports.DefaultForm,
		FetchByID: func(ctx context.Context, id int64) (reports.Detail, error) {
			return deps.Reports.Detail(ctx, deps.credential(), id)
		},
		MapDetail: reports.ToForm,
		Create: func(ctx context.Context, values reports.Form) error {
			cred := deps.credential()
			exists, err := deps.Reports.Exists(ctx, cred, []int64{values.AppointmentID})
			if err != nil {
				return fmt.Errorf("check existing report: %w", err)
			}
			if exists[values.AppointmentID] {
				return reports.ErrAlreadyReported
			}
			_, err = deps.Reports.CreateReport(ctx, cred, values)
			return err
		},
		Update: func(ctx context.Context, id int64, values reports.Form) error {
			_, err := deps.Reports.UpdateReport(ctx, deps.credential(), id, values)
			return err
		},
		Validate:       reports.Form.Validate,
		CreatedMessage: ReportCreatedMessage,
		FailureMessage: func(err error) string {
			if errors.Is(err, reports.ErrAlreadyReported) {
				return reports.AlreadyReportedMessage
			}
			return ReportFailedMessage
		},
		Notifier:  deps.Notifier,
		Navigator: deps.Navigator,
		Logger:    deps.Logger,
	})
}
