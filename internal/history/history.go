// Package history tracks a bounded, newest-first log of edits and deletions
// for one project and assembles completion context from it.
package history

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rcliao/vibe-writer/internal/diff"
	"github.com/rcliao/vibe-writer/internal/logger"
	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/pattern"
	"github.com/rcliao/vibe-writer/internal/store"
)

const (
	// DefaultMaxSize bounds both the edit and the deletion sequence.
	DefaultMaxSize = 100

	// ContextEdits is how many recent edits go into a completion context.
	ContextEdits = 5

	snippetChars   = 100
	deletionChars  = 200
	immediateChars = 200
)

// History owns one project's edit history. It is not safe for concurrent
// use; callers serialize access per project.
type History struct {
	project string
	backend store.Backend
	maxSize int
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	doc model.EditHistory
}

// Option configures a History.
type Option func(*History)

// WithMaxSize sets the capacity of each sequence. Values below 1 are ignored.
func WithMaxSize(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxSize = n
		}
	}
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(h *History) { h.timeout = d }
}

// WithLogger sets the logger used for load fallbacks and save failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) { h.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *History) { h.now = now }
}

// Open loads the project's history from backend. A missing document is
// created empty and persisted. A corrupt document is logged and replaced by
// an empty history in memory. Any other backend failure is returned.
func Open(ctx context.Context, backend store.Backend, project string, opts ...Option) (*History, error) {
	h := &History{
		project: project,
		backend: backend,
		maxSize: DefaultMaxSize,
		logger:  logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("project", project, "doc", store.EditHistoryDoc)

	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Load replaces the in-memory state with the stored document.
func (h *History) Load(ctx context.Context) error {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	doc, err := store.LoadOrInit(ctx, h.backend, h.project, store.EditHistoryDoc, h.logger, h.empty)
	if err != nil {
		return err
	}
	h.doc = normalize(doc, h.project)
	return nil
}

// Save rewrites the whole document, stamping last_updated.
func (h *History) Save(ctx context.Context) error {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return h.save(ctx)
}

func (h *History) save(ctx context.Context) error {
	h.doc.Metadata.LastUpdated = h.now().UTC()
	return store.SaveJSON(ctx, h.backend, h.project, store.EditHistoryDoc, h.doc)
}

// persist saves after a mutation. The mutation stays applied in memory when
// the save fails; the error tells the caller durability is unknown.
func (h *History) persist(ctx context.Context) error {
	if err := h.Save(ctx); err != nil {
		h.logger.Error("save edit history", "error", err)
		return err
	}
	return nil
}

// RecordEdit logs the transition from oldText to newText. An empty editType
// defaults to text_change.
func (h *History) RecordEdit(ctx context.Context, oldText, newText string, loc model.Location, editType string) (model.EditRecord, error) {
	if editType == "" {
		editType = model.EditTypeTextChange
	}
	rec := model.EditRecord{
		Timestamp: h.now().UTC(),
		EditType:  editType,
		Diff:      diff.Compute(oldText, newText),
		Location:  locationOrEmpty(loc),
		Context: model.EditContext{
			Before: tail(oldText, snippetChars),
			After:  head(newText, snippetChars),
		},
	}

	h.doc.Edits = pushFront(h.doc.Edits, rec, h.maxSize)
	return rec, h.persist(ctx)
}

// RecordDeletion logs a removed span of text.
func (h *History) RecordDeletion(ctx context.Context, deleted string, loc model.Location) (model.DeletionRecord, error) {
	rec := model.DeletionRecord{
		Timestamp:   h.now().UTC(),
		DeletedText: deleted,
		Location:    locationOrEmpty(loc),
		Context:     head(deleted, deletionChars),
	}

	h.doc.Deletions = pushFront(h.doc.Deletions, rec, h.maxSize)
	return rec, h.persist(ctx)
}

// RecentEdits returns up to count edits, newest first.
func (h *History) RecentEdits(count int) []model.EditRecord {
	return firstN(h.doc.Edits, count)
}

// RecentDeletions returns up to count deletions, newest first.
func (h *History) RecentDeletions(count int) []model.DeletionRecord {
	return firstN(h.doc.Deletions, count)
}

// ContextForCompletion assembles the text before the cursor, the most recent
// edits and the patterns derived from them. A cursor past the end of text
// selects the whole text; a negative cursor selects nothing.
func (h *History) ContextForCompletion(text string, cursor int) model.CompletionContext {
	recent := h.RecentEdits(ContextEdits)
	return model.CompletionContext{
		ImmediateContext: tail(prefix(text, cursor), immediateChars),
		RecentEdits:      recent,
		EditPatterns:     pattern.Extract(recent),
	}
}

// FindRelatedDeletions scans deletions newest first and collects those whose
// text contains search, ignoring case. The scan stops at maxResults, so only
// the most recent matches are returned.
func (h *History) FindRelatedDeletions(search string, maxResults int) []model.DeletionRecord {
	related := []model.DeletionRecord{}
	if maxResults <= 0 {
		return related
	}
	needle := strings.ToLower(search)
	for _, d := range h.doc.Deletions {
		if !strings.Contains(strings.ToLower(d.DeletedText), needle) {
			continue
		}
		related = append(related, d)
		if len(related) >= maxResults {
			break
		}
	}
	return related
}

// Snapshot returns a copy of the full document.
func (h *History) Snapshot() model.EditHistory {
	doc := h.doc
	doc.Edits = slices.Clone(h.doc.Edits)
	doc.Deletions = slices.Clone(h.doc.Deletions)
	return doc
}

// MaxSize reports the configured capacity.
func (h *History) MaxSize() int { return h.maxSize }

func (h *History) empty() model.EditHistory {
	return model.EditHistory{
		Edits:     []model.EditRecord{},
		Deletions: []model.DeletionRecord{},
		Metadata:  model.NewMetadata(h.project, h.now().UTC()),
	}
}

func (h *History) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func normalize(doc model.EditHistory, project string) model.EditHistory {
	if doc.Edits == nil {
		doc.Edits = []model.EditRecord{}
	}
	if doc.Deletions == nil {
		doc.Deletions = []model.DeletionRecord{}
	}
	if doc.Metadata.ProjectName == "" {
		doc.Metadata.ProjectName = project
	}
	return doc
}

func locationOrEmpty(loc model.Location) model.Location {
	if loc == nil {
		return model.Location{}
	}
	return loc
}
