package handler

import (
	"context"
	"sync/atomic"
	"testing"

	consoledomain "agendaConsole/internal/modules/console/domain"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) RefetchAll(context.Context) int {
	r.calls.Add(1)
	return 2
}

func TestAppointmentChangedHandlersCoverEveryTopic(t *testing.T) {
	t.Parallel()

	refresher := &countingRefresher{}
	handlers := NewAppointmentChangedHandlers(refresher)
	if len(handlers) != 3 {
		t.Fatalf("expected 3 handlers, got %d", len(handlers))
	}
	seen := map[string]bool{}
	for _, h := range handlers {
		seen[h.Topic()] = true
		if err := h.Handle(context.Background(), &consoledomain.Message{Topic: h.Topic(), ResourceID: "7"}); err != nil {
			t.Fatalf("handle %s: %v", h.Topic(), err)
		}
	}
	for _, topic := range []string{"appointments.created", "appointments.updated", "appointments.deleted"} {
		if !seen[topic] {
			t.Fatalf("missing handler for %s", topic)
		}
	}
	if got := refresher.calls.Load(); got != 3 {
		t.Fatalf("expected 3 refetches, got %d", got)
	}
}
