package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/normalization"

	"golang.org/x/sync/singleflight"
)

var ErrNoOptions = errors.New("entity has no options")

// Option is one entry of a select: the record name and its id as a string.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OptionLoader fetches the options of one entity.
type OptionLoader func(ctx context.Context, cred auth.Credential) ([]Option, error)

// OptionsOf adapts an "all records" call into an OptionLoader. Rows without an id are dropped.
func OptionsOf[T any](all func(ctx context.Context, cred auth.Credential) ([]T, error), id func(T) int64, label func(T) string) OptionLoader {
	return func(ctx context.Context, cred auth.Credential) ([]Option, error) {
		rows, err := all(ctx, cred)
		if err != nil {
			return nil, err
		}
		options := make([]Option, 0, len(rows))
		for _, row := range rows {
			rowID := id(row)
			if rowID <= 0 {
				continue
			}
			options = append(options, Option{Label: label(row), Value: strconv.FormatInt(rowID, 10)})
		}
		return options, nil
	}
}

// Options serves select options; concurrent requests for the same entity share one call.
type Options struct {
	loaders     map[string]OptionLoader
	credentials auth.CredentialSource
	group       singleflight.Group
}

func NewOptions(credentials auth.CredentialSource, loaders map[string]OptionLoader) *Options {
	normalized := make(map[string]OptionLoader, len(loaders))
	for entity, loader := range loaders {
		normalized[normalization.NormalizeEntity(entity)] = loader
	}
	return &Options{loaders: normalized, credentials: credentials}
}

func (o *Options) Load(ctx context.Context, entity string) ([]Option, error) {
	canonical := normalization.NormalizeEntity(entity)
	loader, ok := o.loaders[canonical]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoOptions, entity)
	}
	cred := auth.Anonymous
	if o.credentials != nil {
		cred = o.credentials.Credential()
	}
	value, err, shared := o.group.Do(canonical+"|"+cred.Token, func() (any, error) {
		return loader(context.WithoutCancel(ctx), cred)
	})
	if err != nil {
		slog.Error("options load failed", slog.String("entity", canonical), slog.Any("error", err))
		return nil, fmt.Errorf("options %s: %w", canonical, err)
	}
	options := value.([]Option)
	if shared {
		slog.Debug("options load shared", slog.String("entity", canonical))
	}
	out := make([]Option, len(options))
	copy(out, options)
	return out, nil
}
