package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appointments "agendaConsole/internal/modules/appointments/domain"
	appointmentsinfra "agendaConsole/internal/modules/appointments/infrastructure"
	clients "agendaConsole/internal/modules/clients/domain"
	clientsinfra "agendaConsole/internal/modules/clients/infrastructure"
	reports "agendaConsole/internal/modules/reports/domain"
	reportsinfra "agendaConsole/internal/modules/reports/infrastructure"
	services "agendaConsole/internal/modules/services/domain"
	servicesinfra "agendaConsole/internal/modules/services/infrastructure"
	users "agendaConsole/internal/modules/users/domain"
	usersinfra "agendaConsole/internal/modules/users/infrastructure"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/normalization"
	"agendaConsole/internal/shared/notify"
)

const SelfDeleteMessage = "No puedes eliminar tu propio usuario."

var (
	ErrUnknownList = errors.New("entity has no list")
	ErrSelfDelete  = errors.New("cannot delete the signed-in user")
)

// Lister is a list seen without its row type.
type Lister interface {
	Entity() string
	Render(ctx context.Context, page, limit int, filters map[string]string) (any, error)
	Remove(ctx context.Context, id int64, confirmed bool, page, limit int) (any, error)
}

// CatalogDeps are the backends of every console list.
type CatalogDeps struct {
	Credentials  auth.CredentialSource
	Clients      *clientsinfra.ClientHTTPClient
	Users        *usersinfra.UserHTTPClient
	Services     *servicesinfra.ServiceHTTPClient
	Appointments *appointmentsinfra.AppointmentHTTPClient
	Reports      *reportsinfra.ReportHTTPClient
	PageSize     int
	// CurrentUserID guards against deleting the signed-in user.
	CurrentUserID func() int64
	Notifier      notify.Notifier
	Logger        *slog.Logger
}

// Catalog holds the lists, the select options and the reports page of the console.
type Catalog struct {
	lists   map[string]Lister
	Options *Options
	Reports *ReportBoard
}

func NewCatalog(deps CatalogDeps) *Catalog {
	catalog := &Catalog{lists: map[string]Lister{}}
	loaders := map[string]OptionLoader{}

	if deps.Clients != nil {
		catalog.lists["clients"] = NewList(Config[clients.Client]{
			Entity: "clients", Source: deps.Clients, Credentials: deps.Credentials, PageSize: deps.PageSize,
			Messages: Messages{LoadFailed: "Error al cargar los clientes", Deleted: "Cliente eliminado", DeleteFailed: "No se pudo eliminar el cliente"},
			Notifier: deps.Notifier, Logger: deps.Logger,
		})
		loaders["clients"] = OptionsOf(deps.Clients.All, func(c clients.Client) int64 { return c.ID }, clients.Client.OptionLabel)
	}
	if deps.Users != nil {
		catalog.lists["users"] = NewList(Config[users.User]{
			Entity: "users", Source: deps.Users, Credentials: deps.Credentials, PageSize: deps.PageSize,
			Messages: Messages{LoadFailed: "Error al cargar los usuarios", Deleted: "Usuario eliminado", DeleteFailed: "No se pudo eliminar el usuario", Forbidden: SelfDeleteMessage},
			Guard:    selfGuard(deps.CurrentUserID),
			Notifier: deps.Notifier, Logger: deps.Logger,
		})
		loaders["users"] = OptionsOf(deps.Users.All, func(u users.User) int64 { return u.ID }, users.User.OptionLabel)
	}
	if deps.Services != nil {
		catalog.lists["services"] = NewList(Config[services.Service]{
			Entity: "services", Source: deps.Services, Credentials: deps.Credentials, PageSize: deps.PageSize,
			Messages: Messages{LoadFailed: "Error al cargar los servicios", Deleted: "Servicio eliminado", DeleteFailed: "No se pudo eliminar el servicio"},
			Notifier: deps.Notifier, Logger: deps.Logger,
		})
		loaders["services"] = OptionsOf(deps.Services.All, func(s services.Service) int64 { return s.ID }, services.Service.OptionLabel)
	}
	if deps.Appointments != nil {
		catalog.lists["appointments"] = NewList(Config[appointments.Appointment]{
			Entity: "appointments", Source: deps.Appointments, Credentials: deps.Credentials, PageSize: deps.PageSize,
			Messages: Messages{LoadFailed: AppointmentsLoadFailedMessage, Deleted: "Cita eliminada", DeleteFailed: "No se pudo eliminar la cita"},
			Notifier: deps.Notifier, Logger: deps.Logger,
		})
	}
	if deps.Reports != nil {
		catalog.lists["reports"] = NewList(Config[reports.Report]{
			Entity: "reports", Source: deps.Reports, Credentials: deps.Credentials, PageSize: deps.PageSize,
			Messages: Messages{LoadFailed: "Error al cargar los reportes", Deleted: "Reporte eliminado", DeleteFailed: "No se pudo eliminar el reporte"},
			Notifier: deps.Notifier, Logger: deps.Logger,
		})
	}
	if deps.Appointments != nil && deps.Reports != nil {
		catalog.Reports = &ReportBoard{
			Appointments: deps.Appointments,
			Reports:      deps.Reports,
			Credentials:  deps.Credentials,
			PageSize:     deps.PageSize,
			Notifier:     deps.Notifier,
		}
	}
	catalog.Options = NewOptions(deps.Credentials, loaders)
	return catalog
}

// List returns the list of entity, accepting the usual aliases.
func (c *Catalog) List(entity string) (Lister, error) {
	lister, ok := c.lists[normalization.NormalizeEntity(entity)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, entity)
	}
	return lister, nil
}

func selfGuard(current func() int64) func(int64) error {
	if current == nil {
		return nil
	}
	return func(id int64) error {
		if self := current(); self > 0 && self == id {
			return ErrSelfDelete
		}
		return nil
	}
}
