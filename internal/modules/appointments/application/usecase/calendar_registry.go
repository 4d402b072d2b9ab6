package usecase

import (
	"context"
	"log/slog"
	"sync"
)

// CalendarRegistry tracks the calendars currently open in the console.
type CalendarRegistry struct {
	deps CalendarDeps

	mu        sync.RWMutex
	calendars map[string]*Calendar
}

func NewCalendarRegistry(deps CalendarDeps) *CalendarRegistry {
	return &CalendarRegistry{deps: deps, calendars: make(map[string]*Calendar)}
}

// Open creates a calendar whose views are handed to publish.
func (r *CalendarRegistry) Open(publish Publisher) *Calendar {
	calendar := NewCalendar(r.deps, publish)
	r.mu.Lock()
	r.calendars[calendar.ID()] = calendar
	count := len(r.calendars)
	r.mu.Unlock()
	slog.Debug("calendar opened", slog.String("calendarId", calendar.ID()), slog.Int("open", count))
	return calendar
}

func (r *CalendarRegistry) Get(id string) (*Calendar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calendar, ok := r.calendars[id]
	return calendar, ok
}

func (r *CalendarRegistry) Close(id string) {
	r.mu.Lock()
	calendar, ok := r.calendars[id]
	delete(r.calendars, id)
	r.mu.Unlock()
	if ok {
		calendar.Close()
		slog.Debug("calendar closed", slog.String("calendarId", id))
	}
}

// RefetchAll re-derives every open calendar and returns how many fetches were issued.
func (r *CalendarRegistry) RefetchAll(ctx context.Context) int {
	r.mu.RLock()
	open := make([]*Calendar, 0, len(r.calendars))
	for _, calendar := range r.calendars {
		open = append(open, calendar)
	}
	r.mu.RUnlock()

	issued := 0
	for _, calendar := range open {
		if ticket := calendar.Refetch(ctx); !ticket.Skipped {
			issued++
		}
	}
	return issued
}
