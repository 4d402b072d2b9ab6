package handler

import (
	"context"
	"log/slog"

	"agendaConsole/internal/modules/appointments/application/port"
	consoledomain "agendaConsole/internal/modules/console/domain"
)

// AppointmentChangedHandler refetches every open calendar when the backend reports a change.
type AppointmentChangedHandler struct {
	topic     string
	Calendars port.CalendarRefresher
}

func NewAppointmentChangedHandlers(calendars port.CalendarRefresher) []port.TopicHandler {
	topics := consoledomain.AppointmentTopics()
	handlers := make([]port.TopicHandler, 0, len(topics))
	for _, topic := range topics {
		handlers = append(handlers, &AppointmentChangedHandler{topic: topic, Calendars: calendars})
	}
	return handlers
}

func (h *AppointmentChangedHandler) Topic() string { return h.topic }

func (h *AppointmentChangedHandler) Handle(ctx context.Context, msg *consoledomain.Message) error {
	issued := h.Calendars.RefetchAll(ctx)
	slog.Info("appointment change received", slog.String("topic", h.topic), slog.String("resourceId", msg.ResourceID), slog.Int("calendars", issued))
	return nil
}

var _ port.TopicHandler = (*AppointmentChangedHandler)(nil)
