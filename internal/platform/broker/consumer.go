package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"agendaConsole/internal/modules/console/domain"
	"agendaConsole/internal/shared/normalization"
)

const readBackoff = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader  messageReader
	backoff time.Duration
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		backoff: readBackoff,
	}
}

// Consume hands every message to handler until ctx is done. Read errors are retried
// after a pause; handler errors are logged and the message is not redelivered.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			slog.Warn("kafka reader close error", slog.Any("error", err))
		}
	}()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		msg := decodeMessage(m)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", msg.Entity),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", msg.Topic), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID json.RawMessage   `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

// decodeMessage accepts the backend event envelope; anything else is kept raw under the
// Kafka topic.
func decodeMessage(m kafka.Message) *domain.Message {
	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		msg := domain.NewMessage(m.Topic, string(m.Value), time.Now())
		if msg.Action == "" {
			msg.Action = "unknown"
		}
		return msg
	}

	topicEntity, topicAction := domain.SplitTopic(m.Topic)
	entity := normalization.FirstNonEmpty(event.Entity, topicEntity)
	action := normalization.FirstNonEmpty(event.Action, topicAction, "unknown")
	topic := strings.TrimSpace(event.Topic)
	if topic == "" {
		topic = domain.CustomTopic(entity, action)
	}

	msg := domain.NewMessage(topic, event.Data, time.Now())
	msg.Entity = entity
	msg.Action = action
	msg.ResourceID = resourceID(event.ResourceID)
	msg.Metadata = event.Metadata
	return msg
}

// resourceID accepts numeric and string ids.
func resourceID(raw json.RawMessage) string {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return ""
	}
	return strings.Trim(value, `"`)
}
