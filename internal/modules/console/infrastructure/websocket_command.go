package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"agendaConsole/internal/modules/console/domain"
)

type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

// Decode unmarshals the payload into v.
func (c Command) Decode(v any) error {
	if len(c.Payload) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(c.Payload, v)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

type registration struct {
	handler CommandHandler
	async   bool
}

// CommandProcessor dispatches client commands. Synchronous handlers run on the
// read pump in arrival order; async ones get their own goroutine and timeout.
type CommandProcessor struct {
	hub          *Hub
	handlers     map[string]registration
	asyncTimeout time.Duration
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	processor := &CommandProcessor{
		hub:          hub,
		handlers:     make(map[string]registration),
		asyncTimeout: 15 * time.Second,
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	p.register(action, handler, false)
}

// RegisterAsync is for handlers that wait on the backend.
func (p *CommandProcessor) RegisterAsync(action string, handler CommandHandler) {
	p.register(action, handler, true)
}

func (p *CommandProcessor) register(action string, handler CommandHandler, async bool) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = registration{handler: handler, async: async}
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	reg, ok := p.handlers[action]
	if !ok {
		slog.Debug("ws command ignored", slog.String("clientId", client.id), slog.String("action", action))
		SendError(client, action, "acción desconocida")
		return
	}
	if !reg.async {
		reg.handler(context.Background(), client, cmd)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.asyncTimeout)
	go func() {
		defer cancel()
		reg.handler(ctx, client, cmd)
	}()
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		slog.Debug("ws subscribe ignored empty topic", slog.String("clientId", client.id))
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", slog.String("clientId", client.id), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.Send(domain.NewMessage(domain.TopicSystemPong, nil, time.Now()))
}

// SendError reports a rejected command back to the client that sent it.
func SendError(client *Client, action, message string) {
	msg := domain.NewMessage(domain.TopicSystemError, map[string]string{"action": action, "error": message}, time.Now())
	client.Send(msg)
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
