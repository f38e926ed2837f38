package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrCorrupt marks a stored document that could not be decoded.
var ErrCorrupt = errors.New("corrupt document")

// LoadJSON decodes the named document into v. It returns ErrNotFound when the
// document is absent, and an error wrapping ErrCorrupt when it cannot be
// decoded.
func LoadJSON(ctx context.Context, b Backend, project, name string, v any) error {
	data, err := b.Load(ctx, project, name)
	if err != nil {
		return wrap("load", project, name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, project, name, err)
	}
	return nil
}

// SaveJSON encodes v as indented JSON and replaces the named document.
func SaveJSON(ctx context.Context, b Backend, project, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", project, name, err)
	}
	return wrap("save", project, name, b.Save(ctx, project, name, data))
}

// LoadOrInit loads the named document. An absent document is replaced by
// init() and persisted; a failed first save is only logged because the empty
// value is still valid in memory. A corrupt document is logged and replaced
// by init() without touching storage, so it survives until the next write.
// Other backend failures are returned.
func LoadOrInit[T any](ctx context.Context, b Backend, project, name string, log *slog.Logger, init func() T) (T, error) {
	var v T
	err := LoadJSON(ctx, b, project, name, &v)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, ErrNotFound):
		v = init()
		if err := SaveJSON(ctx, b, project, name, v); err != nil {
			log.Warn("persist new document", "error", err)
		}
		return v, nil
	case errors.Is(err, ErrCorrupt):
		log.Warn("document unreadable, starting empty", "error", err)
		return init(), nil
	default:
		return v, err
	}
}
