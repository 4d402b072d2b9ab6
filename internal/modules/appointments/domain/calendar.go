package domain

import (
	"strconv"
	"time"
)

// DefaultEventDuration is used when the backend supplies no end time.
const DefaultEventDuration = 45 * time.Minute

const (
	ColorPending   = "#facc15"
	ColorConfirmed = "#22c55e"
	ColorCancelled = "#ef4444"
	ColorCompleted = "#3b82f6"
	ColorNeutral   = "#6b7280"
)

// isoMillis matches the ISO-8601 form the backend and browsers exchange.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type EventProps struct {
	ID           int64  `json:"id"`
	Client       string `json:"client"`
	Professional string `json:"professional"`
	Service      string `json:"service"`
	Status       Status `json:"status"`
}

// Event is one appointment as the calendar displays it.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Start           string     `json:"start"`
	End             string     `json:"end"`
	BackgroundColor string     `json:"backgroundColor"`
	ExtendedProps   EventProps `json:"extendedProps"`
}

// StatusColor maps a status to its display colour. Unknown values get the neutral colour.
func StatusColor(status Status) string {
	switch status {
	case StatusPending:
		return ColorPending
	case StatusConfirmed:
		return ColorConfirmed
	case StatusCancelled:
		return ColorCancelled
	case StatusCompleted:
		return ColorCompleted
	default:
		return ColorNeutral
	}
}

// ParseInstant accepts RFC 3339 timestamps with or without fractional seconds.
func ParseInstant(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// FormatInstant renders t in UTC with millisecond precision ("2024-01-01T10:45:00.000Z").
func FormatInstant(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// DeriveEnd returns start plus duration. An unparseable start is returned unchanged.
func DeriveEnd(start string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultEventDuration
	}
	parsed, err := ParseInstant(start)
	if err != nil {
		return start
	}
	return FormatInstant(parsed.Add(duration))
}

func ToEvent(a Appointment, duration time.Duration) Event {
	client := a.ClientName()
	title := client
	if title == "" {
		title = "Cliente"
	}
	service := a.ServiceName()
	if service == "" {
		service = "N/A"
	}
	return Event{
		ID:              strconv.FormatInt(a.ID, 10),
		Title:           "cita de " + title,
		Start:           a.Date,
		End:             DeriveEnd(a.Date, duration),
		BackgroundColor: StatusColor(a.Status),
		ExtendedProps: EventProps{
			ID:           a.ID,
			Client:       client,
			Professional: a.ProfessionalName(),
			Service:      service,
			Status:       a.Status,
		},
	}
}

// Project maps a page of appointments into calendar events, preserving order.
func Project(rows []Appointment, duration time.Duration) []Event {
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, ToEvent(row, duration))
	}
	return events
}
