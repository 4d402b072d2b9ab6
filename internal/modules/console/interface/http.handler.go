package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/appointments/application/usecase"
	clientsinfra "agendaConsole/internal/modules/clients/infrastructure"
	"agendaConsole/internal/modules/console/application/form"
	"agendaConsole/internal/modules/console/application/listing"
	"agendaConsole/internal/modules/console/infrastructure"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/httputil"
	"agendaConsole/internal/shared/notify"
	"agendaConsole/internal/shared/session"
)

const (
	WelcomeMessage       = "¡Bienvenido de nuevo!"
	LoginFailedMessage   = "Credenciales inválidas. Intenta nuevamente."
	LoginRequiredMessage = "Debes iniciar sesión para continuar"
	DashboardRoute       = "/dashboard"
)

// SessionManager is the operator session as the HTTP surface uses it.
type SessionManager interface {
	auth.CredentialSource
	Login(ctx context.Context, email, password string) (session.Profile, error)
	Logout(ctx context.Context) error
	Profile() (session.Profile, bool)
}

type Deps struct {
	Session   SessionManager
	Catalog   *listing.Catalog
	Forms     *form.Registry
	Clients   *clientsinfra.ClientHTTPClient
	Calendars *usecase.CalendarRegistry
	Hub       *infrastructure.Hub
	Notifier  notify.Notifier
	Navigator notify.Navigator
	Logger    *slog.Logger
}

// Handlers is the console HTTP and websocket surface.
type Handlers struct {
	Deps
	errors   *httputil.ErrorMapper
	logger   *slog.Logger
	commands *infrastructure.CommandProcessor
}

func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		Deps:   deps,
		errors: newErrorMapper(),
		logger: logger.With(slog.String("component", "http")),
	}
	if deps.Hub != nil {
		h.commands = infrastructure.NewCommandProcessor(deps.Hub)
		registerCalendarCommands(h.commands)
	}
	return h
}

// Register mounts every console route on e.
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", h.health)

	api := e.Group("/api")
	api.POST("/auth/login", h.login)

	protected := api.Group("", h.requireSession)
	protected.GET("/auth/me", h.me)
	protected.POST("/auth/logout", h.logout)
	h.registerLists(protected)
	h.registerForms(protected)

	// the login page listens for notifications before any session exists
	e.GET("/ws/notifications", h.notificationsSocket)
	ws := e.Group("/ws", h.requireSession)
	ws.GET("/calendar", h.calendarSocket)
}

func (h *Handlers) health(c echo.Context) error {
	clients := 0
	if h.Hub != nil {
		clients = h.Hub.Count()
	}
	_, authenticated := h.Session.Profile()
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"authenticated": authenticated,
		"wsClients":     clients,
	})
}

// requireSession turns away every request while no operator is signed in.
func (h *Handlers) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := h.Session.Profile(); !ok {
			notify.Error(h.Notifier, LoginRequiredMessage)
			if h.Navigator != nil {
				h.Navigator.Navigate(session.LoginRoute)
			}
			return h.respondError(c, session.ErrNotAuthenticated)
		}
		return next(c)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httputil.HTTPErrorInfo{Message: "invalid body"})
	}
	profile, err := h.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", req.Email), slog.Any("error", err))
		notify.Error(h.Notifier, LoginFailedMessage)
		info := h.errors.Map(err)
		if info.Status >= http.StatusInternalServerError {
			// the backend answers bad credentials with a 4xx the mapper does not know
			info = httputil.HTTPErrorInfo{Status: http.StatusUnauthorized, Message: "invalid credentials"}
		}
		return c.JSON(info.Status, info)
	}
	notify.Success(h.Notifier, WelcomeMessage)
	if h.Navigator != nil {
		h.Navigator.Navigate(DashboardRoute)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handlers) me(c echo.Context) error {
	profile, ok := h.Session.Profile()
	if !ok {
		return h.respondError(c, session.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handlers) logout(c echo.Context) error {
	if err := h.Session.Logout(c.Request().Context()); err != nil {
		h.logger.Warn("logout failed", slog.Any("error", err))
	}
	return c.NoContent(http.StatusNoContent)
}
