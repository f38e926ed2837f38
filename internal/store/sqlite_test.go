package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteBackend(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBackends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"file":   NewFileBackend(t.TempDir()),
		"sqlite": newTestSQLite(t),
		"memory": NewMemoryBackend(),
	}
}

func TestBackendLoadMissing(t *testing.T) {
	ctx := context.Background()
	for name, b := range testBackends(t) {
		_, err := b.Load(ctx, "novel", EditHistoryDoc)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestBackendSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	for name, b := range testBackends(t) {
		if err := b.Save(ctx, "novel", MemoriesDoc, []byte(`{"chunks":[]}`)); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err := b.Load(ctx, "novel", MemoriesDoc)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(got) != `{"chunks":[]}` {
			t.Errorf("%s: expected body back, got %q", name, got)
		}

		// Replace, not append
		b.Save(ctx, "novel", MemoriesDoc, []byte(`{}`))
		got, _ = b.Load(ctx, "novel", MemoriesDoc)
		if string(got) != `{}` {
			t.Errorf("%s: expected replaced body, got %q", name, got)
		}
	}
}

func TestBackendProjectsIsolated(t *testing.T) {
	ctx := context.Background()
	for name, b := range testBackends(t) {
		b.Save(ctx, "a", ContentDoc, []byte("A"))
		b.Save(ctx, "b", ContentDoc, []byte("B"))

		got, _ := b.Load(ctx, "a", ContentDoc)
		if string(got) != "A" {
			t.Errorf("%s: expected A, got %q", name, got)
		}
		// Project names are case-sensitive keys
		if _, err := b.Load(ctx, "A", ContentDoc); !errors.Is(err, ErrNotFound) && name != "file" {
			t.Errorf("%s: expected case-sensitive miss, got %v", name, err)
		}
	}
}

func TestFileBackendLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewFileBackend(dir)

	if err := b.Save(ctx, "novel", EditHistoryDoc, []byte("{}")); err != nil {
		t.Fatalf("save: %v", err)
	}
	path := filepath.Join(dir, "novel", "edit_history.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "novel"))
	if len(entries) != 1 {
		t.Errorf("expected only the document file, got %d entries", len(entries))
	}
}

func TestFileBackendCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewFileBackend(t.TempDir())
	if err := b.Save(ctx, "novel", ContentDoc, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSaveJSONWrapsErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	// A regular file where the project directory should be makes MkdirAll fail.
	os.WriteFile(filepath.Join(dir, "blocked"), []byte("x"), 0o644)

	err := SaveJSON(ctx, NewFileBackend(dir), "blocked", ContentDoc, map[string]string{"a": "b"})
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Op != "save" || se.Project != "blocked" || se.Name != ContentDoc {
		t.Errorf("unexpected error fields: %+v", se)
	}
}

func TestLoadJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	b.Save(ctx, "novel", EditHistoryDoc, []byte("{not json"))

	var v map[string]any
	err := LoadJSON(ctx, b, "novel", EditHistoryDoc, &v)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestLoadJSONNotFound(t *testing.T) {
	var v map[string]any
	err := LoadJSON(context.Background(), NewMemoryBackend(), "novel", EditHistoryDoc, &v)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateProject(t *testing.T) {
	good := []string{"novel", "My Story", "draft-2"}
	bad := []string{"", "  ", "..", "../etc", "a/b", `a\b`, "c:"}
	for _, n := range good {
		if err := ValidateProject(n); err != nil {
			t.Errorf("%q: unexpected error %v", n, err)
		}
	}
	for _, n := range bad {
		if err := ValidateProject(n); !errors.Is(err, ErrInvalidProject) {
			t.Errorf("%q: expected ErrInvalidProject, got %v", n, err)
		}
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "tape"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
