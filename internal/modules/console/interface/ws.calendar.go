package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/appointments/application/usecase"
	appointments "agendaConsole/internal/modules/appointments/domain"
	"agendaConsole/internal/modules/console/domain"
	"agendaConsole/internal/modules/console/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errNoCalendar = errors.New("socket has no calendar")

// calendarSocket opens one calendar per connection; its views are pushed as
// calendar.events and it is closed with the socket.
func (h *Handlers) calendarSocket(c echo.Context) error {
	if h.Calendars == nil || h.Hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar unavailable")
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("calendar ws upgrade failed", slog.String("ip", c.RealIP()), slog.Any("error", err))
		return err
	}

	client := infrastructure.NewClient(h.Hub, conn, "calendar", 16, h.commands)
	calendar := h.Calendars.Open(func(view usecase.CalendarView) {
		msg := domain.NewMessage(domain.TopicCalendarEvents, view, time.Now())
		msg.ResourceID = view.ID
		client.Send(msg)
	})
	client.Attach(calendar)
	client.AddCloseHook(func(*infrastructure.Client) { h.Calendars.Close(calendar.ID()) })
	h.Hub.AttachClient(client, nil)

	go client.WritePump()
	go client.ReadPump()

	connected := domain.NewMessage(domain.TopicSystemConnected, map[string]any{
		"mode":       "calendar",
		"calendarId": calendar.ID(),
	}, time.Now())
	connected.Metadata = map[string]string{"clientId": client.ID()}
	client.Send(connected)

	h.logger.Info("calendar ws connected", slog.String("clientId", client.ID()), slog.String("calendarId", calendar.ID()), slog.String("ip", c.RealIP()))
	return nil
}

type rangePayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	UserID   int64  `json:"userId"`
	ClientID int64  `json:"clientId"`
	Status   string `json:"status"`
}

func (p rangePayload) filters() appointments.Filters {
	return appointments.Filters{
		Window:   appointments.Window{From: p.From, To: p.To},
		UserID:   p.UserID,
		ClientID: p.ClientID,
		Status:   appointments.NormalizeStatus(p.Status),
	}
}

type movePayload struct {
	AppointmentID int64  `json:"appointmentId"`
	Start         string `json:"start"`
	MoveID        string `json:"moveId"`
}

type statusPayload struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
}

func registerCalendarCommands(p *infrastructure.CommandProcessor) {
	p.Register("set_range", calendarCommand(func(ctx context.Context, cal *usecase.Calendar, client *infrastructure.Client, cmd infrastructure.Command) error {
		var payload rangePayload
		if err := cmd.Decode(&payload); err != nil {
			return err
		}
		cal.SetWindow(ctx, payload.filters())
		return nil
	}))
	p.Register("refetch", calendarCommand(func(ctx context.Context, cal *usecase.Calendar, _ *infrastructure.Client, _ infrastructure.Command) error {
		cal.Refetch(ctx)
		return nil
	}))
	p.Register("move", calendarCommand(func(_ context.Context, cal *usecase.Calendar, client *infrastructure.Client, cmd infrastructure.Command) error {
		var payload movePayload
		if err := cmd.Decode(&payload); err != nil {
			return err
		}
		move, err := cal.BeginMove(payload.AppointmentID, payload.Start)
		if err != nil {
			return err
		}
		msg := domain.NewMessage(domain.TopicCalendarMove, move, time.Now())
		msg.ResourceID = move.ID
		client.Send(msg)
		return nil
	}))
	p.RegisterAsync("confirm_move", calendarCommand(func(ctx context.Context, cal *usecase.Calendar, _ *infrastructure.Client, cmd infrastructure.Command) error {
		var payload movePayload
		if err := cmd.Decode(&payload); err != nil {
			return err
		}
		_, err := cal.ConfirmMove(ctx, payload.MoveID)
		return err
	}))
	p.Register("cancel_move", calendarCommand(func(_ context.Context, cal *usecase.Calendar, _ *infrastructure.Client, cmd infrastructure.Command) error {
		var payload movePayload
		if err := cmd.Decode(&payload); err != nil {
			return err
		}
		return cal.CancelMove(payload.MoveID)
	}))
	p.RegisterAsync("update_status", calendarCommand(func(ctx context.Context, cal *usecase.Calendar, _ *infrastructure.Client, cmd infrastructure.Command) error {
		var payload statusPayload
		if err := cmd.Decode(&payload); err != nil {
			return err
		}
		_, err := cal.UpdateStatus(ctx, payload.AppointmentID, appointments.Status(payload.Status))
		return err
	}))
}

type calendarHandler func(ctx context.Context, cal *usecase.Calendar, client *infrastructure.Client, cmd infrastructure.Command) error

// calendarCommand resolves the calendar bound to the socket and reports failures back on it.
func calendarCommand(fn calendarHandler) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		cal, ok := client.Attached().(*usecase.Calendar)
		if !ok {
			infrastructure.SendError(client, cmd.Action, errNoCalendar.Error())
			return
		}
		if err := fn(ctx, cal, client, cmd); err != nil {
			slog.Debug("calendar command failed", slog.String("clientId", client.ID()), slog.String("calendarId", cal.ID()), slog.String("action", cmd.Action), slog.Any("error", err))
			infrastructure.SendError(client, cmd.Action, err.Error())
		}
	}
}
