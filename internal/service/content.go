package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/store"
)

// SaveContent replaces the project's text and records the change as a
// text_change edit located at cursor. A nil cursor is recorded as null.
func (s *Service) SaveContent(ctx context.Context, project, content string, cursor *int) (model.ContentDocument, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	defer unlock()

	old, _, err := s.loadContent(ctx, project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	doc, err := s.saveContent(ctx, project, content)
	if err != nil {
		return model.ContentDocument{}, err
	}

	var pos any
	if cursor != nil {
		pos = *cursor
	}
	return doc, s.recordContentEdit(ctx, project, old.Content, content, model.Location{"cursor_position": pos}, model.EditTypeTextChange)
}

// Content returns the project's saved text. It fails with store.ErrNotFound
// when nothing has been saved yet.
func (s *Service) Content(ctx context.Context, project string) (model.ContentDocument, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	defer unlock()

	doc, ok, err := s.loadContent(ctx, project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	if !ok {
		return model.ContentDocument{}, fmt.Errorf("content of project %q: %w", project, store.ErrNotFound)
	}
	return doc, nil
}

// RestoreDeletion appends previously deleted text to the end of the project's
// content, separated by a blank line, and records a restore_deletion edit.
func (s *Service) RestoreDeletion(ctx context.Context, project, deleted string) (model.ContentDocument, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	defer unlock()

	cur, ok, err := s.loadContent(ctx, project)
	if err != nil {
		return model.ContentDocument{}, err
	}
	if !ok {
		return model.ContentDocument{}, fmt.Errorf("content of project %q: %w", project, store.ErrNotFound)
	}

	updated := cur.Content + "\n\n" + deleted
	doc, err := s.saveContent(ctx, project, updated)
	if err != nil {
		return model.ContentDocument{}, err
	}
	return doc, s.recordContentEdit(ctx, project, cur.Content, updated, nil, model.EditTypeRestoreDeletion)
}

func (s *Service) recordContentEdit(ctx context.Context, project, oldText, newText string, loc model.Location, editType string) error {
	if !s.cfg.EditHistoryEnabled {
		return nil
	}
	h, err := s.openHistory(ctx, project)
	if err != nil {
		return err
	}
	_, err = h.RecordEdit(ctx, oldText, newText, loc, editType)
	s.metrics.EditRecorded()
	return s.saved(err)
}

// loadContent reports ok=false when no content document exists. A corrupt
// document reads as empty text.
func (s *Service) loadContent(ctx context.Context, project string) (doc model.ContentDocument, ok bool, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = store.LoadJSON(ctx, s.backend, project, store.ContentDoc, &doc)
	switch {
	case err == nil:
		return doc, true, nil
	case errors.Is(err, store.ErrNotFound):
		return model.ContentDocument{}, false, nil
	case errors.Is(err, store.ErrCorrupt):
		s.logger.Warn("content unreadable, treating as empty", "project", project, "error", err)
		return model.ContentDocument{}, true, nil
	default:
		s.metrics.StorageFailed("load")
		return model.ContentDocument{}, false, err
	}
}

func (s *Service) saveContent(ctx context.Context, project, content string) (model.ContentDocument, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := model.ContentDocument{Content: content, LastUpdated: s.now().UTC()}
	if err := s.saved(store.SaveJSON(ctx, s.backend, project, store.ContentDoc, doc)); err != nil {
		return model.ContentDocument{}, err
	}
	return doc, nil
}
