package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/vibe-writer/internal/model"
	"github.com/rcliao/vibe-writer/internal/store"
)

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestHistory(t *testing.T, opts ...Option) (*History, store.Backend) {
	t.Helper()
	b := store.NewFileBackend(t.TempDir())
	opts = append([]Option{WithClock(tick())}, opts...)
	h, err := Open(context.Background(), b, "novel", opts...)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	return h, b
}

func TestOpenCreatesEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	b := store.NewFileBackend(dir)
	h, err := Open(context.Background(), b, "novel")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(h.RecentEdits(10)) != 0 {
		t.Error("expected no edits")
	}

	data, err := os.ReadFile(filepath.Join(dir, "novel", "edit_history.json"))
	if err != nil {
		t.Fatalf("expected document to be persisted: %v", err)
	}
	var doc map[string]any
	json.Unmarshal(data, &doc)
	for _, k := range []string{"edits", "deletions", "metadata"} {
		if _, ok := doc[k]; !ok {
			t.Errorf("expected key %q in persisted document", k)
		}
	}
	if edits, _ := doc["edits"].([]any); edits == nil {
		t.Error("expected edits to serialize as an empty array")
	}
}

func TestRecordEditScenario(t *testing.T) {
	h, _ := newTestHistory(t)

	rec, err := h.RecordEdit(context.Background(), "Hello", "Hello world", nil, "")
	if err != nil {
		t.Fatalf("record edit: %v", err)
	}
	if rec.EditType != model.EditTypeTextChange {
		t.Errorf("expected default edit type, got %q", rec.EditType)
	}
	d := rec.Diff
	if d.OldLength != 5 || d.NewLength != 11 || d.ChangeSize != 6 {
		t.Errorf("unexpected diff %+v", d)
	}
	if math.Abs(d.Similarity-0.625) > 1e-9 {
		t.Errorf("expected similarity 0.625, got %f", d.Similarity)
	}
	if rec.Context.Before != "Hello" || rec.Context.After != "Hello world" {
		t.Errorf("unexpected context %+v", rec.Context)
	}
	if rec.Location == nil {
		t.Error("expected empty, non-nil location")
	}
}

func TestRecordEditSnippets(t *testing.T) {
	h, _ := newTestHistory(t)
	old := strings.Repeat("a", 150) + "END"
	updated := "START" + strings.Repeat("b", 150)

	rec, _ := h.RecordEdit(context.Background(), old, updated, model.Location{"cursor_position": 7}, "")
	if len([]rune(rec.Context.Before)) != 100 || !strings.HasSuffix(rec.Context.Before, "END") {
		t.Errorf("expected last 100 chars of old text, got %q", rec.Context.Before)
	}
	if len([]rune(rec.Context.After)) != 100 || !strings.HasPrefix(rec.Context.After, "START") {
		t.Errorf("expected first 100 chars of new text, got %q", rec.Context.After)
	}
	if rec.Location["cursor_position"] != 7 {
		t.Errorf("expected location to be kept, got %v", rec.Location)
	}
}

func TestRecordEditEmptyInputs(t *testing.T) {
	h, _ := newTestHistory(t)
	rec, _ := h.RecordEdit(context.Background(), "", "", nil, model.EditTypeInitialContent)
	if rec.Context.Before != "" || rec.Context.After != "" {
		t.Errorf("expected empty snippets, got %+v", rec.Context)
	}
	if rec.Diff.Similarity != 1.0 {
		t.Errorf("expected similarity 1.0 for two empty texts, got %f", rec.Diff.Similarity)
	}
}

func TestEvictionKeepsNewest(t *testing.T) {
	h, _ := newTestHistory(t, WithMaxSize(2))
	ctx := context.Background()

	e1, _ := h.RecordEdit(ctx, "", "E1", nil, "")
	e2, _ := h.RecordEdit(ctx, "E1", "E2", nil, "")
	e3, _ := h.RecordEdit(ctx, "E2", "E3", nil, "")

	got := h.RecentEdits(10)
	if len(got) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(got))
	}
	if got[0].Context.After != "E3" || got[1].Context.After != "E2" {
		t.Errorf("expected [E3, E2], got [%s, %s]", got[0].Context.After, got[1].Context.After)
	}
	if !got[0].Timestamp.Equal(e3.Timestamp) || !got[1].Timestamp.Equal(e2.Timestamp) {
		t.Error("expected surviving records to be E3 then E2")
	}
	for _, e := range got {
		if e.Timestamp.Equal(e1.Timestamp) {
			t.Error("E1 should have been evicted")
		}
	}
}

func TestEvictionManyEdits(t *testing.T) {
	const limit = 7
	h, _ := newTestHistory(t, WithMaxSize(limit))
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		h.RecordEdit(ctx, "", fmt.Sprintf("edit-%02d", i), nil, "")
		h.RecordDeletion(ctx, fmt.Sprintf("del-%02d", i), nil)
	}

	edits := h.RecentEdits(100)
	if len(edits) != limit {
		t.Fatalf("expected %d edits, got %d", limit, len(edits))
	}
	for i, e := range edits {
		want := fmt.Sprintf("edit-%02d", 19-i)
		if e.Context.After != want {
			t.Errorf("position %d: expected %s, got %s", i, want, e.Context.After)
		}
	}
	if n := len(h.RecentDeletions(100)); n != limit {
		t.Errorf("expected %d deletions, got %d", limit, n)
	}
}

func TestRecentEditsBounds(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		h.RecordEdit(ctx, "", fmt.Sprint(i), nil, "")
	}

	if got := h.RecentEdits(0); len(got) != 0 || got == nil {
		t.Errorf("expected empty non-nil slice for k=0, got %v", got)
	}
	if got := h.RecentEdits(-1); len(got) != 0 {
		t.Errorf("expected empty for negative k, got %d", len(got))
	}
	all := h.RecentEdits(50)
	if !reflect.DeepEqual(all, h.Snapshot().Edits) {
		t.Error("expected k >= len to return the full sequence unchanged")
	}
	if got := h.RecentEdits(2); len(got) != 2 || got[0].Context.After != "2" {
		t.Errorf("unexpected first two edits %+v", got)
	}

	// Returned slices are copies.
	all[0].EditType = "mutated"
	if h.RecentEdits(1)[0].EditType == "mutated" {
		t.Error("mutating a returned slice changed the history")
	}
}

func TestRecordDeletion(t *testing.T) {
	h, _ := newTestHistory(t)
	long := strings.Repeat("x", 250)

	rec, err := h.RecordDeletion(context.Background(), long, model.Location{"start": 10})
	if err != nil {
		t.Fatalf("record deletion: %v", err)
	}
	if rec.DeletedText != long {
		t.Error("expected full deleted text")
	}
	if len(rec.Context) != 200 {
		t.Errorf("expected 200 char context, got %d", len(rec.Context))
	}
	if got := h.RecentDeletions(10); len(got) != 1 {
		t.Errorf("expected 1 deletion, got %d", len(got))
	}
}

func TestContextForCompletion(t *testing.T) {
	h, _ := newTestHistory(t)

	c := h.ContextForCompletion("The cat sat", 7)
	if c.ImmediateContext != "The cat" {
		t.Errorf("expected %q, got %q", "The cat", c.ImmediateContext)
	}
	if c.RecentEdits == nil || len(c.RecentEdits) != 0 {
		t.Errorf("expected empty recent edits, got %v", c.RecentEdits)
	}
	if c.EditPatterns.AverageEditSize != 0 {
		t.Errorf("expected zero average, got %f", c.EditPatterns.AverageEditSize)
	}

	if got := h.ContextForCompletion("short", 99).ImmediateContext; got != "short" {
		t.Errorf("cursor past end: expected whole text, got %q", got)
	}
	if got := h.ContextForCompletion("short", -3).ImmediateContext; got != "" {
		t.Errorf("negative cursor: expected empty, got %q", got)
	}

	long := strings.Repeat("a", 300) + strings.Repeat("b", 200)
	if got := h.ContextForCompletion(long, 500).ImmediateContext; got != strings.Repeat("b", 200) {
		t.Errorf("expected last 200 chars before cursor, got %d chars", len(got))
	}
}

func TestContextUsesFiveMostRecent(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		h.RecordEdit(ctx, "", strings.Repeat("x", i+1), nil, "")
	}
	h.RecordEdit(ctx, "abc", "", nil, "mystery")

	c := h.ContextForCompletion("text", 4)
	if len(c.RecentEdits) != 5 {
		t.Fatalf("expected 5 recent edits, got %d", len(c.RecentEdits))
	}
	// sizes of the five newest: -3, 8, 7, 6, 5
	if c.EditPatterns.AverageEditSize != 29.0/5.0 {
		t.Errorf("expected average 5.8, got %f", c.EditPatterns.AverageEditSize)
	}
	if c.EditPatterns.EditTypes[model.EditTypeOther] != 1 || c.EditPatterns.EditTypes[model.EditTypeTextChange] != 4 {
		t.Errorf("unexpected edit types %v", c.EditPatterns.EditTypes)
	}
}

func TestFindRelatedDeletions(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()
	texts := []string{
		"The Dragon slept",
		"nothing here",
		"a dragon woke",
		"DRAGONS everywhere",
		"the dragon's hoard",
	}
	for _, s := range texts {
		h.RecordDeletion(ctx, s, nil)
	}

	got := h.FindRelatedDeletions("dragon", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	// Newest first, bounded scan.
	if got[0].DeletedText != "the dragon's hoard" || got[1].DeletedText != "DRAGONS everywhere" {
		t.Errorf("unexpected order: %q, %q", got[0].DeletedText, got[1].DeletedText)
	}

	all := h.FindRelatedDeletions("DrAgOn", 10)
	if len(all) != 4 {
		t.Errorf("expected 4 matches, got %d", len(all))
	}
	for _, d := range all {
		if !strings.Contains(strings.ToLower(d.DeletedText), "dragon") {
			t.Errorf("%q does not contain search term", d.DeletedText)
		}
	}

	if got := h.FindRelatedDeletions("dragon", 0); len(got) != 0 {
		t.Errorf("expected no results for max 0, got %d", len(got))
	}
	if got := h.FindRelatedDeletions("unicorn", 5); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	h, b := newTestHistory(t)
	ctx := context.Background()
	h.RecordEdit(ctx, "a", "ab", model.Location{"cursor_position": 2}, "")
	h.RecordDeletion(ctx, "gone", model.Location{"start": 1})

	reloaded, err := Open(ctx, b, "novel")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	want, _ := json.Marshal(h.Snapshot())
	got, _ := json.Marshal(reloaded.Snapshot())
	if !bytes.Equal(want, got) {
		t.Errorf("round trip mismatch\nwant %s\ngot  %s", want, got)
	}
}

func TestSaveTwiceOnlyTimestampDiffers(t *testing.T) {
	dir := t.TempDir()
	b := store.NewFileBackend(dir)
	ctx := context.Background()
	h, _ := Open(ctx, b, "novel", WithClock(tick()))
	h.RecordEdit(ctx, "one", "one two", nil, "")

	path := filepath.Join(dir, "novel", "edit_history.json")
	h.Save(ctx)
	first, _ := os.ReadFile(path)
	h.Save(ctx)
	second, _ := os.ReadFile(path)

	if bytes.Equal(first, second) {
		t.Fatal("expected last_updated to change between saves")
	}

	var a, c model.EditHistory
	json.Unmarshal(first, &a)
	json.Unmarshal(second, &c)
	a.Metadata.LastUpdated = time.Time{}
	c.Metadata.LastUpdated = time.Time{}
	ja, _ := json.Marshal(a)
	jc, _ := json.Marshal(c)
	if !bytes.Equal(ja, jc) {
		t.Errorf("expected documents to match apart from last_updated\n%s\n%s", ja, jc)
	}
}

func TestCorruptDocumentFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	b := store.NewMemoryBackend()
	b.Save(ctx, "novel", store.EditHistoryDoc, []byte("{broken"))

	h, err := Open(ctx, b, "novel")
	if err != nil {
		t.Fatalf("expected corrupt document to be tolerated, got %v", err)
	}
	if len(h.RecentEdits(10)) != 0 {
		t.Error("expected empty history")
	}
}

type failingBackend struct {
	store.Backend
	loadErr error
	saveErr error
}

func (f failingBackend) Load(ctx context.Context, project, name string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Backend.Load(ctx, project, name)
}

func (f failingBackend) Save(ctx context.Context, project, name string, data []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Backend.Save(ctx, project, name, data)
}

func TestOpenSurfacesBackendErrors(t *testing.T) {
	b := failingBackend{Backend: store.NewMemoryBackend(), loadErr: errors.New("permission denied")}
	_, err := Open(context.Background(), b, "novel")

	var se *store.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *store.Error, got %v", err)
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	b := failingBackend{Backend: store.NewMemoryBackend(), saveErr: errors.New("disk full")}
	h, err := Open(context.Background(), b, "novel")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	rec, err := h.RecordEdit(context.Background(), "a", "b", nil, "")
	if err == nil {
		t.Fatal("expected save error")
	}
	if rec.Diff.NewLength != 1 {
		t.Error("expected record to be returned despite save failure")
	}
	if len(h.RecentEdits(10)) != 1 {
		t.Error("expected in-memory insertion to survive the failed save")
	}
}
