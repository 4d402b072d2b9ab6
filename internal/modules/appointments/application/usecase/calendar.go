package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"agendaConsole/internal/modules/appointments/application/port"
	"agendaConsole/internal/modules/appointments/domain"
	"agendaConsole/internal/platform/sequencer"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"

	"github.com/google/uuid"
)

const (
	MovedMessage              = "Cita reprogramada"
	MoveFailedMessage         = "No se pudo mover la cita"
	StatusUpdatedMessage      = "Estado actualizado"
	StatusUpdateFailedMessage = "Error al actualizar estado"
)

var (
	ErrEventNotFound = errors.New("appointment is not in the calendar")
	ErrMoveNotFound  = errors.New("pending move not found")
	ErrInvalidStart  = errors.New("invalid start")
	ErrInvalidStatus = errors.New("invalid status")
	ErrClosed        = errors.New("calendar closed")
)

// CalendarDeps are shared by every calendar of the process.
type CalendarDeps struct {
	Gateway       port.AppointmentGateway
	Credentials   auth.CredentialSource
	Notifier      notify.Notifier
	EventDuration time.Duration
	FetchLimit    int
	Logger        *slog.Logger
}

// PendingMove is a drag-reschedule waiting for confirmation.
type PendingMove struct {
	ID            string `json:"moveId"`
	AppointmentID int64  `json:"appointmentId"`
	From          string `json:"from"`
	To            string `json:"to"`
	Prompt        string `json:"prompt"`
}

// CalendarView is what the operator sees: the fetched events with pending moves applied.
type CalendarView struct {
	ID      string         `json:"calendarId"`
	Filters domain.Filters `json:"filters"`
	Events  []domain.Event `json:"events"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
	Pending []PendingMove  `json:"pending,omitempty"`
}

// Publisher receives every new view. It runs under the calendar lock and must not call
// back into the calendar.
type Publisher func(CalendarView)

type overlay struct {
	move       PendingMove
	confirming bool
	confirmed  bool
	clearAt    uint64
}

// Calendar is one open calendar page. Its events are derived from the latest issued
// fetch only; drag overlays sit on top until the backend confirms or rejects them.
type Calendar struct {
	id      string
	deps    CalendarDeps
	publish Publisher
	seq     *sequencer.Sequencer[domain.Filters, []domain.Event]

	mu         sync.Mutex
	filters    domain.Filters
	hasFilters bool
	// issued is the newest sequence handed out; older results never reach the view.
	issued   uint64
	events   []domain.Event
	lastErr  error
	overlays []*overlay
	closed   bool
}

func NewCalendar(deps CalendarDeps, publish Publisher) *Calendar {
	if deps.EventDuration <= 0 {
		deps.EventDuration = domain.DefaultEventDuration
	}
	if deps.FetchLimit <= 0 {
		deps.FetchLimit = 500
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	c := &Calendar{
		id:      uuid.NewString(),
		deps:    deps,
		publish: publish,
	}
	c.seq = sequencer.New[domain.Filters, []domain.Event](c.fetch,
		sequencer.WithEmpty[domain.Filters, []domain.Event](func(f domain.Filters) bool { return f.Window.Empty() }),
		sequencer.WithApply[domain.Filters, []domain.Event](c.apply),
		sequencer.WithLogger[domain.Filters, []domain.Event](deps.Logger),
	)
	return c
}

func (c *Calendar) ID() string { return c.id }

func (c *Calendar) fetch(ctx context.Context, filters domain.Filters) ([]domain.Event, error) {
	page, err := c.deps.Gateway.Search(ctx, c.credential(), filters, 1, c.deps.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("search appointments: %w", err)
	}
	return domain.Project(page.Data, c.deps.EventDuration), nil
}

func (c *Calendar) credential() auth.Credential {
	if c.deps.Credentials == nil {
		return auth.Anonymous
	}
	return c.deps.Credentials.Credential()
}

func (c *Calendar) apply(_ string, result sequencer.Result[[]domain.Event]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || result.Seq < c.issued {
		return
	}
	c.events = result.Value
	c.lastErr = result.Err
	kept := c.overlays[:0]
	for _, ov := range c.overlays {
		if ov.confirmed && ov.clearAt <= result.Seq {
			continue
		}
		kept = append(kept, ov)
	}
	c.overlays = kept
	c.publishLocked()
}

// SetWindow changes the visible range and filters. An unchanged window issues nothing.
func (c *Calendar) SetWindow(ctx context.Context, filters domain.Filters) sequencer.Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || (c.hasFilters && c.filters == filters) {
		return sequencer.SkippedTicket(c.id)
	}
	c.filters = filters
	c.hasFilters = true
	return c.issueLocked(ctx)
}

// Refetch re-derives the events of the current window.
func (c *Calendar) Refetch(ctx context.Context) sequencer.Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return sequencer.SkippedTicket(c.id)
	}
	return c.issueLocked(ctx)
}

func (c *Calendar) issueLocked(ctx context.Context) sequencer.Ticket {
	ticket := c.seq.Issue(ctx, c.id, c.filters)
	if !ticket.Skipped {
		c.issued = ticket.Seq
		c.publishLocked()
	}
	return ticket
}

// BeginMove shows the appointment at newStart right away and returns the confirmation
// the operator has to answer.
func (c *Calendar) BeginMove(appointmentID int64, newStart string) (PendingMove, error) {
	start, err := domain.ParseInstant(newStart)
	if err != nil {
		return PendingMove{}, fmt.Errorf("%w: %q", ErrInvalidStart, newStart)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return PendingMove{}, ErrClosed
	}
	from, ok := c.displayedStartLocked(appointmentID)
	if !ok {
		return PendingMove{}, ErrEventNotFound
	}
	move := PendingMove{
		ID:            uuid.NewString(),
		AppointmentID: appointmentID,
		From:          from,
		To:            domain.FormatInstant(start),
		Prompt:        MovePrompt(start),
	}
	c.overlays = append(c.overlays, &overlay{move: move})
	c.publishLocked()
	return move, nil
}

// MovePrompt is the confirmation text of a drag-reschedule.
func MovePrompt(start time.Time) string {
	return fmt.Sprintf("¿Deseas mover la cita a %s?", start.Local().Format("2/1/2006, 15:04:05"))
}

// ConfirmMove sends the new date. On failure the event returns to its pre-drag start; on
// success the returned ticket is the refetch that retires the overlay.
func (c *Calendar) ConfirmMove(ctx context.Context, moveID string) (sequencer.Ticket, error) {
	c.mu.Lock()
	ov := c.overlayLocked(moveID)
	if ov == nil || ov.confirming || ov.confirmed {
		c.mu.Unlock()
		return sequencer.SkippedTicket(c.id), ErrMoveNotFound
	}
	ov.confirming = true
	move := ov.move
	c.mu.Unlock()

	_, err := c.deps.Gateway.UpdateAppointment(ctx, c.credential(), move.AppointmentID, domain.ReschedulePayload(move.To))
	if err != nil {
		c.deps.Logger.Error("calendar move failed", slog.String("calendarId", c.id), slog.Int64("appointmentId", move.AppointmentID), slog.Any("error", err))
		c.mu.Lock()
		c.removeOverlayLocked(moveID)
		c.publishLocked()
		c.mu.Unlock()
		notify.Error(c.deps.Notifier, MoveFailedMessage)
		return sequencer.SkippedTicket(c.id), fmt.Errorf("reschedule appointment %d: %w", move.AppointmentID, err)
	}

	notify.Success(c.deps.Notifier, MovedMessage)
	c.mu.Lock()
	defer c.mu.Unlock()
	ov.confirming = false
	ov.confirmed = true
	if c.closed {
		return sequencer.SkippedTicket(c.id), nil
	}
	ticket := c.seq.Issue(ctx, c.id, c.filters)
	if ticket.Skipped {
		c.removeOverlayLocked(moveID)
	} else {
		c.issued = ticket.Seq
		ov.clearAt = ticket.Seq
	}
	c.publishLocked()
	return ticket, nil
}

// CancelMove drops the overlay without contacting the backend.
func (c *Calendar) CancelMove(moveID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ov := c.overlayLocked(moveID)
	if ov == nil || ov.confirming || ov.confirmed {
		return ErrMoveNotFound
	}
	c.removeOverlayLocked(moveID)
	c.publishLocked()
	return nil
}

// UpdateStatus changes only the status of an appointment and refetches on success.
func (c *Calendar) UpdateStatus(ctx context.Context, appointmentID int64, status domain.Status) (sequencer.Ticket, error) {
	normalized := domain.NormalizeStatus(string(status))
	if !normalized.Known() {
		return sequencer.SkippedTicket(c.id), fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, err := c.deps.Gateway.UpdateAppointment(ctx, c.credential(), appointmentID, domain.StatusPayload(normalized)); err != nil {
		c.deps.Logger.Error("calendar status update failed", slog.String("calendarId", c.id), slog.Int64("appointmentId", appointmentID), slog.Any("error", err))
		notify.Error(c.deps.Notifier, StatusUpdateFailedMessage)
		return sequencer.SkippedTicket(c.id), fmt.Errorf("update appointment %d status: %w", appointmentID, err)
	}
	notify.Success(c.deps.Notifier, StatusUpdatedMessage)
	return c.Refetch(ctx), nil
}

func (c *Calendar) View() CalendarView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Close stops publishing; fetches still in flight are discarded on arrival.
func (c *Calendar) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.overlays = nil
	c.seq.Forget(c.id)
}

func (c *Calendar) publishLocked() {
	if c.publish == nil || c.closed {
		return
	}
	c.publish(c.viewLocked())
}

func (c *Calendar) viewLocked() CalendarView {
	view := CalendarView{ID: c.id, Filters: c.filters}
	if current, ok := c.seq.Current(c.id); ok {
		view.Loading = current.Loading
	}
	if c.lastErr != nil {
		view.Error = c.lastErr.Error()
	}
	view.Events = make([]domain.Event, len(c.events))
	copy(view.Events, c.events)
	for _, ov := range c.overlays {
		for i := range view.Events {
			if view.Events[i].ExtendedProps.ID != ov.move.AppointmentID {
				continue
			}
			view.Events[i].Start = ov.move.To
			view.Events[i].End = domain.DeriveEnd(ov.move.To, c.deps.EventDuration)
		}
		if !ov.confirmed {
			view.Pending = append(view.Pending, ov.move)
		}
	}
	return view
}

func (c *Calendar) displayedStartLocked(appointmentID int64) (string, bool) {
	start, found := "", false
	for _, event := range c.events {
		if event.ExtendedProps.ID == appointmentID {
			start, found = event.Start, true
			break
		}
	}
	if !found {
		return "", false
	}
	for _, ov := range c.overlays {
		if ov.move.AppointmentID == appointmentID {
			start = ov.move.To
		}
	}
	return start, true
}

func (c *Calendar) overlayLocked(moveID string) *overlay {
	for _, ov := range c.overlays {
		if ov.move.ID == moveID {
			return ov
		}
	}
	return nil
}

func (c *Calendar) removeOverlayLocked(moveID string) {
	for i, ov := range c.overlays {
		if ov.move.ID == moveID {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			return
		}
	}
}
