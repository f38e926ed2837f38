package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/pattern"
	"github.com/rcliao/vibe-writer/internal/store"
)

// BundleVersion is the export format version written by Export.
const BundleVersion = 1

// Stats summarizes one project's stored state.
type Stats struct {
	Project            string         `json:"project"`
	Edits              int            `json:"edits"`
	Deletions          int            `json:"deletions"`
	Memories           int            `json:"memories"`
	UserEditedMemories int            `json:"user_edited_memories"`
	ContentLength      int            `json:"content_length"`
	HistoryCreatedAt   time.Time      `json:"history_created_at"`
	LastEditAt         *time.Time     `json:"last_edit_at,omitempty"`
	LastDeletionAt     *time.Time     `json:"last_deletion_at,omitempty"`
	EditTypes          map[string]int `json:"edit_types"`
}

// Bundle is a whole-project export.
type Bundle struct {
	Version    int                    `json:"version"`
	Project    string                 `json:"project"`
	ExportedAt time.Time              `json:"exported_at"`
	History    model.EditHistory      `json:"history"`
	Memories   model.MemoryDocument   `json:"memories"`
	Content    *model.ContentDocument `json:"content,omitempty"`
}

// ImportResult counts what Import stored.
type ImportResult struct {
	Edits     int  `json:"edits"`
	Deletions int  `json:"deletions"`
	Memories  int  `json:"memories"`
	Content   bool `json:"content"`
}

// Stats reports counts and timestamps for project.
func (s *Service) Stats(ctx context.Context, project string) (Stats, error) {
	b, err := s.Export(ctx, project)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Project:          project,
		Edits:            len(b.History.Edits),
		Deletions:        len(b.History.Deletions),
		Memories:         len(b.Memories.Chunks),
		HistoryCreatedAt: b.History.Metadata.CreatedAt,
		EditTypes:        pattern.Extract(b.History.Edits).EditTypes,
	}
	for _, c := range b.Memories.Chunks {
		if c.UserEdited {
			st.UserEditedMemories++
		}
	}
	if b.Content != nil {
		st.ContentLength = len([]rune(b.Content.Content))
	}
	if len(b.History.Edits) > 0 {
		t := b.History.Edits[0].Timestamp
		st.LastEditAt = &t
	}
	if len(b.History.Deletions) > 0 {
		t := b.History.Deletions[0].Timestamp
		st.LastDeletionAt = &t
	}
	return st, nil
}

// Export collects the project's history, memories and content.
func (s *Service) Export(ctx context.Context, project string) (Bundle, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return Bundle{}, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return Bundle{}, err
	}
	m, err := s.openMemories(ctx, project)
	if err != nil {
		return Bundle{}, err
	}
	content, ok, err := s.loadContent(ctx, project)
	if err != nil {
		return Bundle{}, err
	}

	b := Bundle{
		Version:    BundleVersion,
		Project:    project,
		ExportedAt: s.now().UTC(),
		History:    h.Snapshot(),
		Memories:   m.Snapshot(),
	}
	if ok {
		b.Content = &content
	}
	return b, nil
}

// Import replaces the project's documents with the bundle's. History beyond
// the configured capacity is dropped from the oldest end.
func (s *Service) Import(ctx context.Context, project string, b Bundle) (ImportResult, error) {
	if b.Version != BundleVersion {
		return ImportResult{}, fmt.Errorf("unsupported bundle version %d", b.Version)
	}
	unlock, err := s.lock(project)
	if err != nil {
		return ImportResult{}, err
	}
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now().UTC()
	hist := b.History
	hist.Edits = keepFirst(hist.Edits, s.cfg.HistoryMaxSize)
	hist.Deletions = keepFirst(hist.Deletions, s.cfg.HistoryMaxSize)
	hist.Metadata = importedMetadata(hist.Metadata, project, now)

	mem := b.Memories
	if mem.Chunks == nil {
		mem.Chunks = []model.MemoryChunk{}
	}
	if n := s.cfg.MemoryMaxChunks; n > 0 && len(mem.Chunks) > n {
		mem.Chunks = mem.Chunks[len(mem.Chunks)-n:]
	}
	mem.Metadata = importedMetadata(mem.Metadata, project, now)

	if err := s.saved(store.SaveJSON(ctx, s.backend, project, store.EditHistoryDoc, hist)); err != nil {
		return ImportResult{}, err
	}
	if err := s.saved(store.SaveJSON(ctx, s.backend, project, store.MemoriesDoc, mem)); err != nil {
		return ImportResult{}, err
	}
	res := ImportResult{Edits: len(hist.Edits), Deletions: len(hist.Deletions), Memories: len(mem.Chunks)}
	if b.Content != nil {
		if err := s.saved(store.SaveJSON(ctx, s.backend, project, store.ContentDoc, b.Content)); err != nil {
			return res, err
		}
		res.Content = true
	}
	return res, nil
}

func keepFirst[T any](s []T, n int) []T {
	if s == nil {
		return []T{}
	}
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func importedMetadata(md model.Metadata, project string, now time.Time) model.Metadata {
	md.ProjectName = project
	if md.CreatedAt.IsZero() {
		md.CreatedAt = now
	}
	md.LastUpdated = now
	return md
}
