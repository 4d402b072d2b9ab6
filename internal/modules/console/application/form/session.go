package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"agendaConsole/internal/shared/normalization"

	"github.com/google/uuid"
)

var (
	ErrUnknownEntity = errors.New("entity has no form")
	ErrFormNotFound  = errors.New("form not found")
)

// View is a Snapshot with the values left untyped.
type View struct {
	FormID     string            `json:"formId,omitempty"`
	State      State             `json:"state"`
	Entity     string            `json:"entity"`
	ID         int64             `json:"id,omitempty"`
	Editing    bool              `json:"editing"`
	Loading    bool              `json:"loading"`
	Submitting bool              `json:"submitting"`
	Values     any               `json:"values"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Session is a form controller seen without its type parameters.
type Session interface {
	Entity() string
	Open(ctx context.Context, rawID string) <-chan struct{}
	SetValuesJSON(raw []byte) error
	Submit(ctx context.Context) error
	Close()
	View() View
}

// Builder creates a fresh session for one entity.
type Builder func() Session

// Registry keeps the open forms of the console, one per form id.
type Registry struct {
	builders map[string]Builder

	mu    sync.RWMutex
	forms map[string]Session
}

func NewRegistry(builders map[string]Builder) *Registry {
	normalized := make(map[string]Builder, len(builders))
	for entity, build := range builders {
		normalized[normalization.NormalizeEntity(entity)] = build
	}
	return &Registry{builders: normalized, forms: make(map[string]Session)}
}

// Start opens a form for entity, bound to rawID when it is not empty.
func (r *Registry) Start(ctx context.Context, entity, rawID string) (string, Session, <-chan struct{}, error) {
	canonical := normalization.NormalizeEntity(entity)
	build, ok := r.builders[canonical]
	if !ok {
		return "", nil, nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	session := build()
	formID := uuid.NewString()

	r.mu.Lock()
	r.forms[formID] = session
	r.mu.Unlock()

	slog.Debug("form opened", slog.String("formId", formID), slog.String("entity", canonical), slog.String("id", rawID))
	return formID, session, session.Open(ctx, rawID), nil
}

func (r *Registry) Get(formID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.forms[formID]
	if !ok {
		return nil, ErrFormNotFound
	}
	return session, nil
}

// Drop closes the form and forgets it.
func (r *Registry) Drop(formID string) error {
	r.mu.Lock()
	session, ok := r.forms[formID]
	delete(r.forms, formID)
	r.mu.Unlock()
	if !ok {
		return ErrFormNotFound
	}
	session.Close()
	return nil
}

// DropAll closes every open form and returns how many there were.
func (r *Registry) DropAll() int {
	r.mu.Lock()
	open := r.forms
	r.forms = make(map[string]Session)
	r.mu.Unlock()
	for _, session := range open {
		session.Close()
	}
	return len(open)
}

func (r *Registry) Entities() []string {
	out := make([]string, 0, len(r.builders))
	for _, entity := range normalization.GetAllValidEntities() {
		if _, ok := r.builders[entity]; ok {
			out = append(out, entity)
		}
	}
	return out
}
