// Package memory keeps a project's story memories: short narrative summaries
// of story segments used as long-range context for generation.
package memory

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/vibe-writer/internal/logger"
	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/store"
)

// IDPrefix starts every memory id.
const IDPrefix = "mem_"

// Store owns one project's memory chunks, kept in ascending creation order.
// It is not safe for concurrent use.
type Store struct {
	project   string
	backend   store.Backend
	maxChunks int
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
	entropy   io.Reader

	doc model.MemoryDocument
}

// Option configures a Store.
type Option func(*Store)

// WithMaxChunks evicts the oldest chunks once more than n are stored.
// 0 keeps the collection unbounded.
func WithMaxChunks(n int) Option {
	return func(s *Store) { s.maxChunks = n }
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogger sets the logger used for load fallbacks and save failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the project's memories with the same policy as the edit
// history: absent documents are created, corrupt ones are logged and
// replaced in memory, other failures are returned.
func Open(ctx context.Context, backend store.Backend, project string, opts ...Option) (*Store, error) {
	s := &Store{
		project: project,
		backend: backend,
		logger:  logger.Nop(),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("project", project, "doc", store.MemoriesDoc)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := store.LoadOrInit(ctx, backend, project, store.MemoriesDoc, s.logger, s.empty)
	if err != nil {
		return nil, err
	}
	if doc.Chunks == nil {
		doc.Chunks = []model.MemoryChunk{}
	}
	s.doc = doc
	return s, nil
}

func (s *Store) newID(t time.Time) string {
	return IDPrefix + ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Add appends a new chunk and persists. The chunk is returned even when the
// save fails.
func (s *Store) Add(ctx context.Context, text string, position int) (model.MemoryChunk, error) {
	now := s.now()
	chunk := model.MemoryChunk{
		ID:        s.newID(now),
		Text:      text,
		Position:  position,
		CreatedAt: now.Unix(),
	}

	s.doc.Chunks = append(s.doc.Chunks, chunk)
	if s.maxChunks > 0 && len(s.doc.Chunks) > s.maxChunks {
		s.doc.Chunks = slices.Delete(s.doc.Chunks, 0, len(s.doc.Chunks)-s.maxChunks)
	}
	return chunk, s.persist(ctx)
}

// All returns every chunk in creation order.
func (s *Store) All() []model.MemoryChunk {
	out := make([]model.MemoryChunk, len(s.doc.Chunks))
	copy(out, s.doc.Chunks)
	return out
}

// Get finds a chunk by id.
func (s *Store) Get(id string) (model.MemoryChunk, bool) {
	i := s.index(id)
	if i < 0 {
		return model.MemoryChunk{}, false
	}
	return s.doc.Chunks[i], true
}

// Edit replaces a chunk's text and marks it user-edited. found is false when
// no chunk has the id; that is not an error.
func (s *Store) Edit(ctx context.Context, id, text string) (chunk model.MemoryChunk, found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return model.MemoryChunk{}, false, nil
	}
	s.doc.Chunks[i].Text = text
	s.doc.Chunks[i].UserEdited = true
	return s.doc.Chunks[i], true, s.persist(ctx)
}

// Delete removes the first chunk with the id.
func (s *Store) Delete(ctx context.Context, id string) (found bool, err error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.doc.Chunks = slices.Delete(s.doc.Chunks, i, i+1)
	return true, s.persist(ctx)
}

// Snapshot returns a copy of the full document.
func (s *Store) Snapshot() model.MemoryDocument {
	doc := s.doc
	doc.Chunks = s.All()
	return doc
}

// Save rewrites the whole document, stamping last_updated.
func (s *Store) Save(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.doc.Metadata.LastUpdated = s.now().UTC()
	return store.SaveJSON(ctx, s.backend, s.project, store.MemoriesDoc, s.doc)
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.Save(ctx); err != nil {
		s.logger.Error("save memories", "error", err)
		return err
	}
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.doc.Chunks, func(c model.MemoryChunk) bool { return c.ID == id })
}

func (s *Store) empty() model.MemoryDocument {
	return model.MemoryDocument{
		Chunks:   []model.MemoryChunk{},
		Metadata: model.NewMetadata(s.project, s.now().UTC()),
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
