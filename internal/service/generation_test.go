package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/model"
)

func TestCompletePlainPrompt(t *testing.T) {
	svc, gen := newTestService(t, DefaultConfig())
	out, err := svc.Complete(context.Background(), "novel", "The cat sat on", -1, GenerateParams{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "generated" {
		t.Errorf("unexpected completion %q", out)
	}
	req := gen.last()
	if req.SystemPrompt != completionSystem {
		t.Errorf("expected plain system prompt, got %q", req.SystemPrompt)
	}
	if req.MaxTokens != 100 || req.Temperature != 0.7 {
		t.Errorf("expected configured defaults, got %+v", req)
	}
}

func TestCompleteUsesEditHistory(t *testing.T) {
	ctx := context.Background()
	svc, gen := newTestService(t, DefaultConfig())
	svc.RecordEdit(ctx, "novel", "", "abcd", nil, model.EditTypeTextChange)
	svc.RecordEdit(ctx, "novel", "", "ab", nil, model.EditTypeFormatChange)
	svc.RecordEdit(ctx, "novel", "", "ab", nil, model.EditTypeTextChange)

	temp := 0.3
	if _, err := svc.Complete(ctx, "novel", "The cat sat", 7, GenerateParams{MaxTokens: 50, Temperature: &temp}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	req := gen.last()
	if req.UserPrompt != "The cat" {
		t.Errorf("expected text before cursor, got %q", req.UserPrompt)
	}
	if !strings.Contains(req.SystemPrompt, "edits of around 2.7 characters") {
		t.Errorf("expected average edit size in prompt, got %q", req.SystemPrompt)
	}
	if !strings.Contains(req.SystemPrompt, "Recent edit types: format_change, text_change") {
		t.Errorf("expected sorted distinct edit types, got %q", req.SystemPrompt)
	}
	if req.MaxTokens != 50 || req.Temperature != 0.3 {
		t.Errorf("expected overrides, got %+v", req)
	}
}

func TestCompleteInvalidTemperature(t *testing.T) {
	svc, gen := newTestService(t, DefaultConfig())
	temp := 1.5
	_, err := svc.Complete(context.Background(), "novel", "x", 1, GenerateParams{Temperature: &temp})
	if !errors.Is(err, generate.ErrTemperature) {
		t.Errorf("expected ErrTemperature, got %v", err)
	}
	if len(gen.reqs) != 0 {
		t.Error("expected generator not to be called")
	}
}

func TestGenerationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AISuggestionsEnabled = false
	svc, _ := newTestService(t, cfg)
	_, err := svc.Complete(context.Background(), "novel", "x", 1, GenerateParams{})
	if !errors.Is(err, ErrFeatureDisabled) {
		t.Errorf("expected ErrFeatureDisabled, got %v", err)
	}
}

func TestNoGenerator(t *testing.T) {
	svc := New(nil, DefaultConfig())
	if _, err := svc.AnalyzeStyle(context.Background(), strings.Repeat("a", 200)); !errors.Is(err, ErrNoGenerator) {
		t.Errorf("expected ErrNoGenerator, got %v", err)
	}
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	svc, gen := newTestService(t, DefaultConfig())
	gen.err = &generate.UpstreamError{StatusCode: 503}
	_, err := svc.Complete(context.Background(), "novel", "x", 1, GenerateParams{})
	if !IsUpstream(err) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestSuggestWithDeletionHints(t *testing.T) {
	ctx := context.Background()
	svc, gen := newTestService(t, DefaultConfig())
	svc.RecordDeletion(ctx, "novel", "first cut", nil)
	svc.RecordDeletion(ctx, "novel", "second cut", nil)
	svc.RecordDeletion(ctx, "novel", "third cut", nil)

	out, err := svc.Suggest(ctx, "novel", "It was a dark night.", 2, GenerateParams{})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(out))
	}
	if len(gen.reqs) != 2 {
		t.Errorf("expected 2 generator calls, got %d", len(gen.reqs))
	}
	req := gen.last()
	if req.SystemPrompt != suggestionSystem || req.MaxTokens != suggestionTokens {
		t.Errorf("unexpected suggestion request %+v", req)
	}
	for _, want := range []string{"Provide 2 different ways", "- third cut...", "- second cut..."} {
		if !strings.Contains(req.UserPrompt, want) {
			t.Errorf("expected prompt to contain %q:\n%s", want, req.UserPrompt)
		}
	}
	if strings.Contains(req.UserPrompt, "first cut") {
		t.Error("expected at most 2 deletion hints")
	}
}

func TestSuggestClampsCount(t *testing.T) {
	svc, gen := newTestService(t, DefaultConfig())
	out, _ := svc.Suggest(context.Background(), "novel", "x", 50, GenerateParams{})
	if len(out) != MaxSuggestions || len(gen.reqs) != MaxSuggestions {
		t.Errorf("expected %d suggestions, got %d", MaxSuggestions, len(out))
	}
	out, _ = svc.Suggest(context.Background(), "novel", "x", 0, GenerateParams{})
	if len(out) != DefaultSuggestions {
		t.Errorf("expected %d suggestions, got %d", DefaultSuggestions, len(out))
	}
}

func TestAnalyzeStyle(t *testing.T) {
	svc, gen := newTestService(t, DefaultConfig())
	text := strings.Repeat("The rain fell softly. ", 10)

	if _, err := svc.AnalyzeStyle(context.Background(), "too short"); !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}

	gen.reply = "Here you go:\n{\"tone\": \"melancholic\", \"voice\": \"third person\"}\nThanks"
	got, err := svc.AnalyzeStyle(context.Background(), text)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got["tone"] != "melancholic" {
		t.Errorf("expected parsed json, got %v", got)
	}
	req := gen.last()
	if req.Temperature != styleTemperature || req.MaxTokens != styleTokens {
		t.Errorf("unexpected style request %+v", req)
	}

	gen.reply = "not json at all"
	got, _ = svc.AnalyzeStyle(context.Background(), text)
	if got["raw_analysis"] != "not json at all" {
		t.Errorf("expected raw_analysis fallback, got %v", got)
	}
}

func TestRecentEditTypes(t *testing.T) {
	edits := []model.EditRecord{
		{EditType: "text_change"}, {EditType: "initial_content"}, {EditType: "text_change"}, {EditType: "format_change"},
	}
	got := recentEditTypes(edits)
	if strings.Join(got, ",") != "initial_content,text_change" {
		t.Errorf("unexpected types %v", got)
	}
}
