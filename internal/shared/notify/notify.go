package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient, user-visible message (the toast of the console).
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(level Level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
}

type Notifier interface {
	Notify(n Notification)
}

// Navigator moves the operator to another console route.
type Navigator interface {
	Navigate(path string)
}

func Success(n Notifier, message string) { send(n, LevelSuccess, message) }
func Error(n Notifier, message string)   { send(n, LevelError, message) }
func Info(n Notifier, message string)    { send(n, LevelInfo, message) }

func send(n Notifier, level Level, message string) {
	if n == nil {
		return
	}
	n.Notify(New(level, message))
}

// Fanout delivers to every non-nil notifier and navigator it wraps.
type Fanout struct {
	Notifiers  []Notifier
	Navigators []Navigator
}

func (f Fanout) Notify(n Notification) {
	for _, target := range f.Notifiers {
		if target != nil {
			target.Notify(n)
		}
	}
}

func (f Fanout) Navigate(path string) {
	for _, target := range f.Navigators {
		if target != nil {
			target.Navigate(path)
		}
	}
}

// LogNotifier writes notifications and navigations to slog.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l LogNotifier) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.logger().Log(context.Background(), level, "notification", slog.String("id", n.ID), slog.String("level", string(n.Level)), slog.String("message", n.Message))
}

func (l LogNotifier) Navigate(path string) {
	l.logger().Info("navigate", slog.String("path", path))
}

// Recorder keeps every notification and navigation in memory.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	paths         []string
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Messages returns the text of every recorded notification, in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notifications))
	for _, n := range r.notifications {
		out = append(out, n.Message)
	}
	return out
}

func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}
