package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
)

var (
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrDeleteForbidden      = errors.New("delete not allowed")
	ErrInvalidID            = errors.New("invalid id")
)

// Source is the backend collection behind a list.
type Source[T any] interface {
	List(ctx context.Context, cred auth.Credential, query rest.PagedQuery) (rest.Page[T], error)
	Delete(ctx context.Context, cred auth.Credential, id int64) error
}

// Messages are the notifications of one list page.
type Messages struct {
	LoadFailed   string
	Deleted      string
	DeleteFailed string
	Forbidden    string
}

type Config[T any] struct {
	Entity      string
	Source      Source[T]
	Credentials auth.CredentialSource
	PageSize    int
	Messages    Messages
	// Guard may veto a delete before it reaches the backend.
	Guard    func(id int64) error
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Result is one rendered list page.
type Result[T any] struct {
	Entity string    `json:"entity"`
	Items  []T       `json:"items"`
	Meta   rest.Meta `json:"meta"`
	Pager  Pager     `json:"pager"`
}

// List loads pages of one entity and deletes rows after an explicit confirmation.
type List[T any] struct {
	cfg Config[T]
}

func NewList[T any](cfg Config[T]) *List[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &List[T]{cfg: cfg}
}

func (l *List[T]) Entity() string { return l.cfg.Entity }

func (l *List[T]) credential() auth.Credential {
	if l.cfg.Credentials == nil {
		return auth.Anonymous
	}
	return l.cfg.Credentials.Credential()
}

// Page loads page (1-based) with the optional filters.
func (l *List[T]) Page(ctx context.Context, page, limit int, filters map[string]string) (Result[T], error) {
	if limit <= 0 {
		limit = l.cfg.PageSize
	}
	query := rest.PagedQuery{Page: page, Limit: limit, Filters: filters}.Normalize(l.cfg.PageSize)
	loaded, err := l.cfg.Source.List(ctx, l.credential(), query)
	if err != nil {
		l.cfg.Logger.Error("list load failed", slog.String("entity", l.cfg.Entity), slog.Int("page", query.Page), slog.Any("error", err))
		notify.Error(l.cfg.Notifier, l.cfg.Messages.LoadFailed)
		return Result[T]{}, fmt.Errorf("list %s: %w", l.cfg.Entity, err)
	}
	items := loaded.Data
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Entity: l.cfg.Entity,
		Items:  items,
		Meta:   loaded.Meta,
		Pager:  NewPager(loaded.Meta),
	}, nil
}

// Delete removes id once confirmed and reloads page, stepping back when the page emptied.
func (l *List[T]) Delete(ctx context.Context, id int64, confirmed bool, page, limit int) (Result[T], error) {
	if id <= 0 {
		return Result[T]{}, ErrInvalidID
	}
	if !confirmed {
		return Result[T]{}, ErrConfirmationRequired
	}
	if l.cfg.Guard != nil {
		if err := l.cfg.Guard(id); err != nil {
			notify.Info(l.cfg.Notifier, l.cfg.Messages.Forbidden)
			return Result[T]{}, fmt.Errorf("%w: %w", ErrDeleteForbidden, err)
		}
	}
	if err := l.cfg.Source.Delete(ctx, l.credential(), id); err != nil {
		l.cfg.Logger.Error("list delete failed", slog.String("entity", l.cfg.Entity), slog.Int64("id", id), slog.Any("error", err))
		notify.Error(l.cfg.Notifier, l.cfg.Messages.DeleteFailed)
		return Result[T]{}, fmt.Errorf("delete %s %d: %w", l.cfg.Entity, id, err)
	}
	notify.Success(l.cfg.Notifier, l.cfg.Messages.Deleted)

	result, err := l.Page(ctx, page, limit, nil)
	if err != nil {
		return Result[T]{}, err
	}
	if len(result.Items) == 0 && result.Pager.TotalPages < page {
		return l.Page(ctx, result.Pager.TotalPages, limit, nil)
	}
	return result, nil
}

// Render and Remove expose a typed list through the Lister interface.
func (l *List[T]) Render(ctx context.Context, page, limit int, filters map[string]string) (any, error) {
	return l.Page(ctx, page, limit, filters)
}

func (l *List[T]) Remove(ctx context.Context, id int64, confirmed bool, page, limit int) (any, error) {
	return l.Delete(ctx, id, confirmed, page, limit)
}
