package model

import "time"

// Edit types recorded by the writer backend. The tag is open-ended; these are
// the values accepted at the API and CLI boundary.
const (
	EditTypeTextChange      = "text_change"
	EditTypeInitialContent  = "initial_content"
	EditTypeRestoreDeletion = "restore_deletion"
	EditTypeFormatChange    = "format_change"

	// EditTypeOther buckets unknown tags during pattern extraction.
	EditTypeOther = "other"
)

// ValidEditTypes are the edit types accepted from callers.
var ValidEditTypes = map[string]bool{
	EditTypeTextChange:      true,
	EditTypeInitialContent:  true,
	EditTypeRestoreDeletion: true,
	EditTypeFormatChange:    true,
}

// Diff summarizes the difference between two text snapshots.
// Lengths count runes.
type Diff struct {
	OldLength  int     `json:"old_length"`
	NewLength  int     `json:"new_length"`
	ChangeSize int     `json:"change_size"`
	Similarity float64 `json:"similarity"`
}

// EditContext holds short snippets around an edit.
type EditContext struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Location is free-form positional metadata, e.g. {"cursor_position": 42}.
type Location map[string]any

// EditRecord is one recorded change to a document.
type EditRecord struct {
	Timestamp time.Time   `json:"timestamp"`
	EditType  string      `json:"edit_type"`
	Diff      Diff        `json:"diff"`
	Location  Location    `json:"location"`
	Context   EditContext `json:"context"`
}

// DeletionRecord is a recorded removal of a text span.
type DeletionRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	DeletedText string    `json:"deleted_text"`
	Location    Location  `json:"location"`
	Context     string    `json:"context"`
}

// EditHistory is the persisted per-project history. Both sequences are
// newest-first.
type EditHistory struct {
	Edits     []EditRecord     `json:"edits"`
	Deletions []DeletionRecord `json:"deletions"`
	Metadata  Metadata         `json:"metadata"`
}

// Patterns are aggregate statistics over a window of edits.
type Patterns struct {
	AverageEditSize float64        `json:"average_edit_size"`
	NetChangeSize   float64        `json:"net_change_size"`
	EditTypes       map[string]int `json:"edit_types"`
}

// CompletionContext is the payload handed to the text generator.
type CompletionContext struct {
	ImmediateContext string       `json:"immediate_context"`
	RecentEdits      []EditRecord `json:"recent_edits"`
	EditPatterns     Patterns     `json:"edit_patterns"`
}
