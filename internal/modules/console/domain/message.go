package domain

import "time"

// Message is what travels from Kafka to the console and from the console to websocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity,omitempty"`
	Action     string            `json:"action,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

func NewMessage(topic string, data any, at time.Time) *Message {
	entity, action := SplitTopic(topic)
	return &Message{
		Topic:     topic,
		Entity:    entity,
		Action:    action,
		Data:      data,
		Timestamp: at.UTC(),
	}
}
