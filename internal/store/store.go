// Package store provides the document persistence backends used by the
// edit history and memory stores.
//
// Each project owns a handful of named JSON documents ("edit_history",
// "memories", "content"). Backends read and replace whole documents; there is
// no incremental update.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Document names used by the writer backend.
const (
	EditHistoryDoc = "edit_history"
	MemoriesDoc    = "memories"
	ContentDoc     = "content"
)

// ErrNotFound is returned by Load when a document does not exist yet.
var ErrNotFound = errors.New("document not found")

// Backend defines whole-document persistence keyed by project and name.
type Backend interface {
	// Load returns the stored document body, or ErrNotFound.
	Load(ctx context.Context, project, name string) ([]byte, error)

	// Save replaces the stored document body.
	Save(ctx context.Context, project, name string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// Error wraps a durable read or write failure.
type Error struct {
	Op      string
	Project string
	Name    string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Project, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, project, name string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Project: project, Name: name, Err: err}
}
