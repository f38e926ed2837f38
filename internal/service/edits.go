package service

import (
	"context"

	"github.com/rcliao/vibe-writer/internal/model"
)

// RecordEdit appends an edit to the project history. On a failed save the
// record is still returned alongside the error.
func (s *Service) RecordEdit(ctx context.Context, project, oldText, newText string, loc model.Location, editType string) (model.EditRecord, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.EditRecord{}, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return model.EditRecord{}, err
	}
	rec, err := h.RecordEdit(ctx, oldText, newText, loc, editType)
	s.metrics.EditRecorded()
	return rec, s.saved(err)
}

// RecordDeletion appends a deletion to the project history.
func (s *Service) RecordDeletion(ctx context.Context, project, deleted string, loc model.Location) (model.DeletionRecord, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.DeletionRecord{}, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return model.DeletionRecord{}, err
	}
	rec, err := h.RecordDeletion(ctx, deleted, loc)
	s.metrics.DeletionRecorded()
	return rec, s.saved(err)
}

// RecentEdits returns up to count edits, newest first.
func (s *Service) RecentEdits(ctx context.Context, project string, count int) ([]model.EditRecord, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return nil, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return nil, err
	}
	return h.RecentEdits(count), nil
}

// RecentDeletions returns up to count deletions, newest first.
func (s *Service) RecentDeletions(ctx context.Context, project string, count int) ([]model.DeletionRecord, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return nil, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return nil, err
	}
	return h.RecentDeletions(count), nil
}

// RelatedDeletions returns up to maxResults of the newest deletions whose text
// contains search, ignoring case.
func (s *Service) RelatedDeletions(ctx context.Context, project, search string, maxResults int) ([]model.DeletionRecord, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return nil, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return nil, err
	}
	return h.FindRelatedDeletions(search, maxResults), nil
}

// CompletionContext assembles the generation payload for text at cursor.
func (s *Service) CompletionContext(ctx context.Context, project, text string, cursor int) (model.CompletionContext, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.CompletionContext{}, err
	}
	defer unlock()

	h, err := s.openHistory(ctx, project)
	if err != nil {
		return model.CompletionContext{}, err
	}
	return h.ContextForCompletion(text, cursor), nil
}
