package domain

import (
	"testing"
	"time"
)

func TestStatusColor(t *testing.T) {
	t.Parallel()

	cases := map[Status]string{
		"PENDING":   "#facc15",
		"CONFIRMED": "#22c55e",
		"CANCELLED": "#ef4444",
		"COMPLETED": "#3b82f6",
		"NO_SHOW":   "#6b7280",
		"":          "#6b7280",
		"pending":   "#6b7280",
	}
	for status, want := range cases {
		if got := StatusColor(status); got != want {
			t.Fatalf("StatusColor(%q) = %s, want %s", status, got, want)
		}
	}
}

func TestDeriveEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		start    string
		duration time.Duration
		want     string
	}{
		{name: "default duration", start: "2024-01-01T10:00:00.000Z", duration: 45 * time.Minute, want: "2024-01-01T10:45:00.000Z"},
		{name: "zero falls back to default", start: "2024-01-01T10:00:00.000Z", want: "2024-01-01T10:45:00.000Z"},
		{name: "offset normalized to utc", start: "2024-01-01T10:00:00-05:00", duration: 45 * time.Minute, want: "2024-01-01T15:45:00.000Z"},
		{name: "crosses midnight", start: "2024-01-01T23:30:00Z", duration: 45 * time.Minute, want: "2024-01-02T00:15:00.000Z"},
		{name: "unparseable kept", start: "mañana", duration: 45 * time.Minute, want: "mañana"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveEnd(tc.start, tc.duration); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestProject(t *testing.T) {
	t.Parallel()

	rows := []Appointment{
		{
			ID:      5,
			Date:    "2024-01-01T10:00:00.000Z",
			Status:  StatusConfirmed,
			User:    &Ref{ID: 2, Name: "Dra. Ruiz"},
			Client:  &Ref{ID: 3, Name: "Ana"},
			Service: &Ref{ID: 4, Name: "Limpieza"},
		},
		{ID: 6, Date: "2024-01-01T12:00:00.000Z", Status: "ARCHIVED"},
	}

	events := Project(rows, DefaultEventDuration)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.ID != "5" || first.Title != "cita de Ana" || first.End != "2024-01-01T10:45:00.000Z" || first.BackgroundColor != ColorConfirmed {
		t.Fatalf("unexpected first event %+v", first)
	}
	if first.ExtendedProps.Professional != "Dra. Ruiz" || first.ExtendedProps.Service != "Limpieza" || first.ExtendedProps.ID != 5 {
		t.Fatalf("unexpected props %+v", first.ExtendedProps)
	}

	second := events[1]
	if second.Title != "cita de Cliente" || second.ExtendedProps.Client != "" || second.ExtendedProps.Service != "N/A" || second.BackgroundColor != ColorNeutral {
		t.Fatalf("unexpected second event %+v", second)
	}
}
