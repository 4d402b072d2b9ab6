package sequencer

import (
	"context"
	"log/slog"
	"sync"
)

// Fetcher performs the asynchronous request for one set of params.
type Fetcher[P, T any] func(ctx context.Context, params P) (T, error)

// Ticket identifies an issued request. Seq is strictly increasing per subject.
type Ticket struct {
	Subject string
	Seq     uint64
	Skipped bool
	done    chan struct{}
}

// Done is closed once the request finished, whether it was applied or dropped.
func (t Ticket) Done() <-chan struct{} {
	return t.done
}

// SkippedTicket is an already settled ticket for requests that were never issued.
func SkippedTicket(subject string) Ticket {
	done := make(chan struct{})
	close(done)
	return Ticket{Subject: subject, Skipped: true, done: done}
}

// Result is the authoritative view state of one subject.
type Result[T any] struct {
	Value   T
	Err     error
	Seq     uint64
	Loading bool
}

type Option[P, T any] func(*Sequencer[P, T])

// WithEmpty short-circuits params the caller considers empty (a missing date range).
func WithEmpty[P, T any](isEmpty func(P) bool) Option[P, T] {
	return func(s *Sequencer[P, T]) { s.isEmpty = isEmpty }
}

// WithApply registers a callback run after a result became authoritative. Callbacks run
// one at a time in the order results were applied.
func WithApply[P, T any](fn func(subject string, result Result[T])) Option[P, T] {
	return func(s *Sequencer[P, T]) { s.onApply = fn }
}

func WithLogger[P, T any](logger *slog.Logger) Option[P, T] {
	return func(s *Sequencer[P, T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sequencer guarantees that, per subject, only the response to the most recently issued
// request reaches view state regardless of completion order.
type Sequencer[P, T any] struct {
	mu       sync.Mutex
	applyMu  sync.Mutex
	counter  uint64
	subjects map[string]*subjectState[T]

	fetch   Fetcher[P, T]
	isEmpty func(P) bool
	onApply func(string, Result[T])
	logger  *slog.Logger
}

type subjectState[T any] struct {
	current uint64
	result  Result[T]
}

func New[P, T any](fetch Fetcher[P, T], opts ...Option[P, T]) *Sequencer[P, T] {
	s := &Sequencer[P, T]{
		subjects: make(map[string]*subjectState[T]),
		fetch:    fetch,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue starts the fetch for params and returns immediately. The fetch outlives ctx's
// cancellation; a superseded result is simply dropped when it arrives.
func (s *Sequencer[P, T]) Issue(ctx context.Context, subject string, params P) Ticket {
	if s.isEmpty != nil && s.isEmpty(params) {
		return SkippedTicket(subject)
	}

	s.mu.Lock()
	s.counter++
	seq := s.counter
	state, ok := s.subjects[subject]
	if !ok {
		state = &subjectState[T]{}
		s.subjects[subject] = state
	}
	state.current = seq
	state.result.Loading = true
	s.mu.Unlock()

	done := make(chan struct{})
	go s.run(context.WithoutCancel(ctx), subject, seq, params, done)
	return Ticket{Subject: subject, Seq: seq, done: done}
}

func (s *Sequencer[P, T]) run(ctx context.Context, subject string, seq uint64, params P, done chan struct{}) {
	defer close(done)

	value, err := s.fetch(ctx, params)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	state, ok := s.subjects[subject]
	if !ok || state.current != seq {
		s.mu.Unlock()
		s.logger.Debug("stale result dropped", slog.String("subject", subject), slog.Uint64("seq", seq))
		return
	}
	if err != nil {
		var empty T
		state.result = Result[T]{Value: empty, Err: err, Seq: seq}
	} else {
		state.result = Result[T]{Value: value, Seq: seq}
	}
	result := state.result
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("fetch failed", slog.String("subject", subject), slog.Uint64("seq", seq), slog.Any("error", err))
	}
	if s.onApply != nil {
		s.onApply(subject, result)
	}
}

// Current returns the latest applied result of subject. Loading reports whether a newer
// request is still outstanding.
func (s *Sequencer[P, T]) Current(subject string) (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.subjects[subject]
	if !ok {
		return Result[T]{}, false
	}
	return state.result, true
}

// Forget drops the subject; outstanding requests for it are discarded on arrival.
func (s *Sequencer[P, T]) Forget(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subjects, subject)
}
