package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agendaConsole/internal/modules/console/domain"
	"agendaConsole/internal/shared/notify"
)

// Hub fans console messages out to the connected websocket clients.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	slog.Info("ws client registered", slog.String("clientId", c.id), slog.String("kind", c.kind))
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
	slog.Debug("ws client unsubscribed", slog.String("clientId", c.id), slog.String("topic", topic))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.clients, c.id)
	c.close()
	slog.Info("ws client detached", slog.String("clientId", c.id), slog.String("kind", c.kind))
}

// Broadcast sends msg to the subscribers of its topic. A "clientId" metadata entry
// restricts delivery to that client.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	subs := h.topics[msg.Topic]
	clients := make([]*Client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	target := ""
	if msg.Metadata != nil {
		target = strings.TrimSpace(msg.Metadata["clientId"])
	}
	for _, c := range clients {
		if target != "" && c.id != target {
			continue
		}
		c.enqueue(data)
	}
}

// Notify pushes a notification to every notification subscriber.
func (h *Hub) Notify(n notify.Notification) {
	h.Broadcast(context.Background(), domain.NewMessage(domain.TopicSystemNotification, n, n.CreatedAt))
}

// Navigate asks the connected consoles to move to path.
func (h *Hub) Navigate(path string) {
	h.Broadcast(context.Background(), domain.NewMessage(domain.TopicSystemNavigate, map[string]string{"path": path}, time.Now()))
}

func (h *Hub) AttachClient(c *Client, topics []string) {
	h.registerClient(c)
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			h.subscribe(c, trimmed)
		}
	}
	slog.Info("ws client attached", slog.String("clientId", c.id), slog.Any("topics", topics))
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var (
	_ notify.Notifier  = (*Hub)(nil)
	_ notify.Navigator = (*Hub)(nil)
)
