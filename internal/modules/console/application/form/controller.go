package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"agendaConsole/internal/shared/normalization"
	"agendaConsole/internal/shared/notify"
	"agendaConsole/internal/shared/validation"
)

const (
	InvalidIDMessage    = "ID inválido"
	MissingFetchMessage = "No se configuró la carga del registro"
	LoadFailedMessage   = "No se pudo cargar el registro"
	UpdatedMessage      = "Registro actualizado"
	CreatedMessage      = "Registro creado"
	SaveFailedMessage   = "Ocurrió un error al guardar"
)

var (
	ErrNotReady      = errors.New("form is not ready")
	ErrSubmitting    = errors.New("form is already submitting")
	ErrMissingFetch  = errors.New("form has no fetch function")
	ErrMissingSubmit = errors.New("form has no submit function")
	ErrInvalidValues = errors.New("invalid form values")
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Config wires a controller to one entity. F is the form values, D the fetched detail.
type Config[F, D any] struct {
	Entity    string
	ListRoute string

	Defaults  func() F
	FetchByID func(ctx context.Context, id int64) (D, error)
	MapDetail func(D) F
	Create    func(ctx context.Context, values F) error
	Update    func(ctx context.Context, id int64, values F) error
	Validate  func(values F, editing bool) error

	// CreatedMessage, UpdatedMessage and FailureMessage override the default notifications.
	CreatedMessage string
	UpdatedMessage string
	FailureMessage func(error) string

	OnLoaded      func(D)
	OnLoadError   func(error)
	OnSuccess     func()
	OnSubmitError func(error)

	Notifier  notify.Notifier
	Navigator notify.Navigator
	Logger    *slog.Logger
}

// Snapshot is the state of a controller at one point in time.
type Snapshot[F any] struct {
	State      State             `json:"state"`
	Entity     string            `json:"entity"`
	ID         int64             `json:"id,omitempty"`
	Editing    bool              `json:"editing"`
	Loading    bool              `json:"loading"`
	Submitting bool              `json:"submitting"`
	Values     F                 `json:"values"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Controller drives a create-or-edit form bound to an optional record id. Every
// asynchronous continuation is tied to the generation it started in; Close or opening a
// different id bumps the generation and older results are dropped.
type Controller[F, D any] struct {
	cfg Config[F, D]

	mu          sync.Mutex
	generation  uint64
	state       State
	id          int64
	values      F
	errors      map[string]string
	submitting  bool
	loadedFor   int64
	inFlightFor int64
	pending     chan struct{}
}

func NewController[F, D any](cfg Config[F, D]) *Controller[F, D] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	c := &Controller[F, D]{cfg: cfg, state: StateIdle}
	c.values = c.defaults()
	return c
}

func (c *Controller[F, D]) Entity() string { return c.cfg.Entity }

// Open binds the form to rawID. The returned channel closes once the form settled in
// ready, loaded or error. Reopening the id that is loaded or still loading fetches nothing.
func (c *Controller[F, D]) Open(ctx context.Context, rawID string) <-chan struct{} {
	c.mu.Lock()

	id, hasID, err := normalization.ParseID(rawID)
	switch {
	case err != nil:
		c.generation++
		c.resetLocked(0, StateError)
		c.mu.Unlock()
		c.cfg.Logger.Warn("form invalid id", slog.String("entity", c.cfg.Entity), slog.String("id", rawID))
		c.fail(InvalidIDMessage)
		return closed()

	case !hasID:
		c.generation++
		c.resetLocked(0, StateReady)
		c.mu.Unlock()
		return closed()

	case id == c.loadedFor && c.state == StateLoaded:
		c.mu.Unlock()
		return closed()

	case id == c.inFlightFor && c.pending != nil:
		pending := c.pending
		c.mu.Unlock()
		return pending

	case c.cfg.FetchByID == nil:
		c.generation++
		c.resetLocked(id, StateError)
		c.mu.Unlock()
		c.cfg.Logger.Error("form load skipped", slog.String("entity", c.cfg.Entity), slog.Any("error", ErrMissingFetch))
		c.fail(MissingFetchMessage)
		return closed()
	}

	c.generation++
	generation := c.generation
	c.resetLocked(id, StateLoading)
	c.inFlightFor = id
	done := make(chan struct{})
	c.pending = done
	c.mu.Unlock()

	go c.load(context.WithoutCancel(ctx), generation, id, done)
	return done
}

func (c *Controller[F, D]) load(ctx context.Context, generation uint64, id int64, done chan struct{}) {
	defer close(done)

	detail, err := c.cfg.FetchByID(ctx, id)

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		c.cfg.Logger.Debug("form load discarded", slog.String("entity", c.cfg.Entity), slog.Int64("id", id))
		return
	}
	c.inFlightFor = 0
	c.pending = nil
	if err != nil {
		c.state = StateError
		c.mu.Unlock()
		c.cfg.Logger.Error("form load failed", slog.String("entity", c.cfg.Entity), slog.Int64("id", id), slog.Any("error", err))
		if c.cfg.OnLoadError != nil {
			c.cfg.OnLoadError(err)
		}
		c.fail(LoadFailedMessage)
		return
	}
	if c.cfg.MapDetail != nil {
		c.values = c.cfg.MapDetail(detail)
	}
	c.errors = nil
	c.state = StateLoaded
	c.loadedFor = id
	c.mu.Unlock()

	if c.cfg.OnLoaded != nil {
		c.cfg.OnLoaded(detail)
	}
}

// SetValues replaces the user input. It is rejected while the form is loading.
func (c *Controller[F, D]) SetValues(values F) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editableLocked() {
		return ErrNotReady
	}
	c.values = values
	return nil
}

// SetValuesJSON applies a JSON object on top of the current values; absent keys keep
// what the form holds.
func (c *Controller[F, D]) SetValuesJSON(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editableLocked() {
		return ErrNotReady
	}
	values := c.values
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValues, err)
	}
	c.values = values
	return nil
}

// Submit validates and sends the values. Validation errors never reach the network and
// come back as validation.FieldErrors; on any failure the values are kept.
func (c *Controller[F, D]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if !c.editableLocked() {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitting
	}
	generation := c.generation
	values := c.values
	id := c.id
	editing := id > 0
	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(values, editing); err != nil {
			if fields, ok := validation.AsFieldErrors(err); ok {
				c.errors = fields.FieldMessages()
			}
			c.mu.Unlock()
			return err
		}
	}
	c.errors = nil
	c.submitting = true
	c.mu.Unlock()

	err := c.send(ctx, editing, id, values)

	c.mu.Lock()
	current := c.generation == generation
	if current {
		c.submitting = false
		if fields, ok := validation.AsFieldErrors(err); ok {
			c.errors = fields.FieldMessages()
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.cfg.Logger.Error("form submit failed", slog.String("entity", c.cfg.Entity), slog.Int64("id", id), slog.Any("error", err))
		if c.cfg.OnSubmitError != nil {
			c.cfg.OnSubmitError(err)
		}
		notify.Error(c.cfg.Notifier, c.failureMessage(err))
		return err
	}

	if c.cfg.OnSuccess != nil {
		c.cfg.OnSuccess()
	}
	if editing {
		notify.Success(c.cfg.Notifier, orDefault(c.cfg.UpdatedMessage, UpdatedMessage))
	} else {
		notify.Success(c.cfg.Notifier, orDefault(c.cfg.CreatedMessage, CreatedMessage))
	}
	c.navigate()
	return nil
}

func (c *Controller[F, D]) failureMessage(err error) string {
	if c.cfg.FailureMessage != nil {
		if message := c.cfg.FailureMessage(err); message != "" {
			return message
		}
	}
	return SaveFailedMessage
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (c *Controller[F, D]) send(ctx context.Context, editing bool, id int64, values F) error {
	if editing {
		if c.cfg.Update == nil {
			return ErrMissingSubmit
		}
		return c.cfg.Update(ctx, id, values)
	}
	if c.cfg.Create == nil {
		return ErrMissingSubmit
	}
	return c.cfg.Create(ctx, values)
}

// Close detaches the form; loads still in flight are discarded when they arrive.
func (c *Controller[F, D]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.resetLocked(0, StateIdle)
}

func (c *Controller[F, D]) Snapshot() Snapshot[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot[F]{
		State:      c.state,
		Entity:     c.cfg.Entity,
		ID:         c.id,
		Editing:    c.id > 0,
		Loading:    c.state == StateLoading,
		Submitting: c.submitting,
		Values:     c.values,
	}
	if len(c.errors) > 0 {
		snap.Errors = make(map[string]string, len(c.errors))
		for key, value := range c.errors {
			snap.Errors[key] = value
		}
	}
	return snap
}

// View is the untyped snapshot used by the console surface.
func (c *Controller[F, D]) View() View {
	snap := c.Snapshot()
	return View{
		State:      snap.State,
		Entity:     snap.Entity,
		ID:         snap.ID,
		Editing:    snap.Editing,
		Loading:    snap.Loading,
		Submitting: snap.Submitting,
		Values:     snap.Values,
		Errors:     snap.Errors,
	}
}

func (c *Controller[F, D]) resetLocked(id int64, state State) {
	c.id = id
	c.state = state
	c.values = c.defaults()
	c.errors = nil
	c.submitting = false
	c.loadedFor = 0
	c.inFlightFor = 0
	c.pending = nil
}

func (c *Controller[F, D]) editableLocked() bool {
	return c.state == StateReady || c.state == StateLoaded
}

func (c *Controller[F, D]) defaults() F {
	if c.cfg.Defaults != nil {
		return c.cfg.Defaults()
	}
	var zero F
	return zero
}

func (c *Controller[F, D]) fail(message string) {
	notify.Error(c.cfg.Notifier, message)
	c.navigate()
}

func (c *Controller[F, D]) navigate() {
	if c.cfg.Navigator != nil && c.cfg.ListRoute != "" {
		c.cfg.Navigator.Navigate(c.cfg.ListRoute)
	}
}

func closed() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
