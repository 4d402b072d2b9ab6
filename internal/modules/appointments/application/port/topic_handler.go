package port

import (
	"context"

	consoledomain "agendaConsole/internal/modules/console/domain"
)

// TopicHandler handles the backend change events of one Kafka topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *consoledomain.Message) error
}

// CalendarRefresher re-derives every open calendar.
type CalendarRefresher interface {
	RefetchAll(ctx context.Context) int
}
