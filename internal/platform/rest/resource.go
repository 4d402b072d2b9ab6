package rest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"agendaConsole/internal/shared/auth"
)

// Resource is the conventional CRUD surface of one backend collection (/clients, /users...).
type Resource[T any] struct {
	client       *Client
	base         string
	defaultLimit int
}

func NewResource[T any](client *Client, base string, defaultLimit int) *Resource[T] {
	return &Resource[T]{client: client, base: "/" + strings.Trim(strings.TrimSpace(base), "/"), defaultLimit: defaultLimit}
}

func (r *Resource[T]) Path(parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, r.base)
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return strings.Join(escaped, "/")
}

func (r *Resource[T]) IDPath(id int64, suffix ...string) string {
	return r.Path(append([]string{strconv.FormatInt(id, 10)}, suffix...)...)
}

func (r *Resource[T]) Client() *Client { return r.client }

func (r *Resource[T]) List(ctx context.Context, cred auth.Credential, query PagedQuery) (Page[T], error) {
	raw, err := r.client.GetRaw(ctx, cred, r.base, query.ToURLValues(r.defaultLimit))
	if err != nil {
		return Page[T]{}, err
	}
	page, err := DecodePage[T](raw)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%s: %w", r.base, err)
	}
	return page, nil
}

// ListAll reads an unpaginated sub-collection such as /clients/all.
func (r *Resource[T]) ListAll(ctx context.Context, cred auth.Credential, parts ...string) ([]T, error) {
	raw, err := r.client.GetRaw(ctx, cred, r.Path(parts...), nil)
	if err != nil {
		return nil, err
	}
	page, err := DecodePage[T](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Path(parts...), err)
	}
	return page.Data, nil
}

func (r *Resource[T]) Get(ctx context.Context, cred auth.Credential, id int64) (T, error) {
	var out T
	err := r.client.Get(ctx, cred, r.IDPath(id), nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, cred auth.Credential, body any) (T, error) {
	var out T
	err := r.client.Post(ctx, cred, r.base, body, &out)
	return out, err
}

// Update sends a partial payload; only the fields set in body are changed.
func (r *Resource[T]) Update(ctx context.Context, cred auth.Credential, id int64, body any) (T, error) {
	var out T
	err := r.client.Put(ctx, cred, r.IDPath(id), body, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, cred auth.Credential, id int64) error {
	return r.client.Delete(ctx, cred, r.IDPath(id))
}
