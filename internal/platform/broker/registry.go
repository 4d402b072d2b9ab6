package broker

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"agendaConsole/internal/modules/console/domain"
)

// Handler reacts to the events of one topic.
type Handler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}

type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]Handler)}
}

func (r *HandlerRegistry) Register(handlers ...Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handlers {
		if h == nil || h.Topic() == "" {
			continue
		}
		r.handlers[h.Topic()] = append(r.handlers[h.Topic()], h)
	}
}

// Dispatch runs every handler of msg.Topic and returns the first error.
func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	r.mu.RLock()
	handlers := r.handlers[msg.Topic]
	r.mu.RUnlock()

	var first error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, msg); err != nil && first == nil {
			first = err
		}
	}
	if len(handlers) == 0 {
		slog.Debug("kafka message without handler", slog.String("topic", msg.Topic))
	}
	return first
}

// Topics lists the registered topics in order.
func (r *HandlerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// StartKafkaConsumers starts one consumer per topic. The returned channel is closed once
// every consumer has stopped after ctx is cancelled.
func StartKafkaConsumers(
	ctx context.Context,
	registry *HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) <-chan struct{} {
	done := make(chan struct{})
	if len(brokers) == 0 || len(topics) == 0 {
		// kafka.NewReader panics on an empty broker list
		close(done)
		return done
	}
	var wg sync.WaitGroup
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("reason", err))
		}(topic)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
