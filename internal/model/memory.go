// Package model defines the core edit-history and memory data types.
package model

import "time"

// MemoryChunk is a short narrative summary of a story segment.
type MemoryChunk struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
	CreatedAt  int64  `json:"created_at"`
	UserEdited bool   `json:"user_edited"`
}

// MemoryDocument is the persisted form of a project's memories.
// Chunks are kept in ascending creation order.
type MemoryDocument struct {
	Chunks   []MemoryChunk `json:"chunks"`
	Metadata Metadata      `json:"metadata"`
}

// Metadata is shared by every persisted per-project document.
type Metadata struct {
	ProjectName string    `json:"project_name"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// ContentDocument holds the latest saved text of a project.
type ContentDocument struct {
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewMetadata returns metadata stamped with now for both timestamps.
func NewMetadata(project string, now time.Time) Metadata {
	return Metadata{ProjectName: project, CreatedAt: now, LastUpdated: now}
}
