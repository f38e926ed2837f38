package service

import (
	"context"

	"github.com/rcliao/vibe-writer/internal/model"
)

// AddMemory appends a story memory recorded at position.
func (s *Service) AddMemory(ctx context.Context, project, text string, position int) (model.MemoryChunk, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.MemoryChunk{}, err
	}
	defer unlock()

	m, err := s.openMemories(ctx, project)
	if err != nil {
		return model.MemoryChunk{}, err
	}
	chunk, err := m.Add(ctx, text, position)
	return chunk, s.saved(err)
}

// Memories returns all memories in creation order.
func (s *Service) Memories(ctx context.Context, project string) ([]model.MemoryChunk, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := s.openMemories(ctx, project)
	if err != nil {
		return nil, err
	}
	return m.All(), nil
}

// EditMemory replaces a memory's text and marks it user-edited.
func (s *Service) EditMemory(ctx context.Context, project, id, text string) (model.MemoryChunk, bool, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return model.MemoryChunk{}, false, err
	}
	defer unlock()

	m, err := s.openMemories(ctx, project)
	if err != nil {
		return model.MemoryChunk{}, false, err
	}
	chunk, found, err := m.Edit(ctx, id, text)
	return chunk, found, s.saved(err)
}

// DeleteMemory removes a memory by id.
func (s *Service) DeleteMemory(ctx context.Context, project, id string) (bool, error) {
	unlock, err := s.lock(project)
	if err != nil {
		return false, err
	}
	defer unlock()

	m, err := s.openMemories(ctx, project)
	if err != nil {
		return false, err
	}
	found, err := m.Delete(ctx, id)
	return found, s.saved(err)
}
