package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/metrics"
	"github.com/rcliao/vibe-writer/internal/model"
)

const (
	DefaultSuggestions = 3
	MaxSuggestions     = 5

	// MinStyleText is the shortest text, in runes, AnalyzeStyle accepts.
	MinStyleText = 100

	suggestionTokens = 150
	styleTokens      = 300
	styleTemperature = 0.2
	styleTextLimit   = 2000
	hintDeletions    = 2
	hintChars        = 50
	promptEditTypes  = 3

	completionSystem = "You are a helpful writing assistant."
	suggestionSystem = "You are a helpful writing assistant. Provide brief, creative sentence continuations."
	styleSystem      = "You are a literary analyst. Respond only with the requested JSON."
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// GenerateParams overrides the configured generation settings for one call.
// Zero values keep the configured defaults.
type GenerateParams struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

func (s *Service) request(p GenerateParams) generate.Request {
	req := generate.Request{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
	if p.Model != "" {
		req.Model = p.Model
	}
	if p.MaxTokens > 0 {
		req.MaxTokens = p.MaxTokens
	}
	if p.Temperature != nil {
		req.Temperature = *p.Temperature
	}
	return req
}

func (s *Service) generate(ctx context.Context, req generate.Request) (string, error) {
	if !s.cfg.AISuggestionsEnabled {
		return "", fmt.Errorf("ai suggestions: %w", ErrFeatureDisabled)
	}
	if s.gen == nil {
		return "", ErrNoGenerator
	}
	if err := req.Validate(); err != nil {
		s.metrics.Generation(metrics.OutcomeInvalid, time.Now())
		return "", err
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.metrics.Generation(metrics.OutcomeUpstream, start)
		s.logger.Error("generate text", "model", req.Model, "error", err)
		return "", err
	}
	s.metrics.Generation(metrics.OutcomeOK, start)
	return text, nil
}

// Complete continues text at cursor, steering the generator with the
// project's recent editing behaviour.
func (s *Service) Complete(ctx context.Context, project, text string, cursor int, p GenerateParams) (string, error) {
	cc, err := s.CompletionContext(ctx, project, text, cursor)
	if err != nil {
		return "", err
	}

	req := s.request(p)
	req.SystemPrompt = completionPrompt(cc)
	req.UserPrompt = cc.ImmediateContext
	return s.generate(ctx, req)
}

func completionPrompt(cc model.CompletionContext) string {
	if len(cc.RecentEdits) == 0 {
		return completionSystem
	}

	var b strings.Builder
	b.WriteString(completionSystem)
	b.WriteString("\n\nRecent editing context:")
	fmt.Fprintf(&b, "\n- The writer typically makes edits of around %.1f characters.", cc.EditPatterns.AverageEditSize)
	fmt.Fprintf(&b, "\n- Recent edit types: %s", strings.Join(recentEditTypes(cc.RecentEdits), ", "))
	return b.String()
}

// recentEditTypes returns the distinct edit types of the newest few edits,
// sorted.
func recentEditTypes(edits []model.EditRecord) []string {
	var types []string
	for i, e := range edits {
		if i == promptEditTypes {
			break
		}
		if e.EditType != "" {
			types = append(types, e.EditType)
		}
	}
	slices.Sort(types)
	return slices.Compact(types)
}

// Suggest asks for n alternative continuations of text. Recent deletions are
// offered to the generator as material worth revisiting.
func (s *Service) Suggest(ctx context.Context, project, text string, n int, p GenerateParams) ([]string, error) {
	if n <= 0 {
		n = DefaultSuggestions
	}
	n = min(n, MaxSuggestions)

	deletions, err := s.RecentDeletions(ctx, project, hintDeletions)
	if err != nil {
		return nil, err
	}
	edits, err := s.RecentEdits(ctx, project, 1)
	if err != nil {
		return nil, err
	}

	req := s.request(p)
	if p.MaxTokens <= 0 {
		req.MaxTokens = suggestionTokens
	}
	req.SystemPrompt = suggestionSystem
	req.UserPrompt = suggestionPrompt(text, n, deletions, len(edits) > 0)

	out := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			reply, err := s.generate(gctx, req)
			if err != nil {
				return err
			}
			out[i] = reply
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func suggestionPrompt(text string, n int, deletions []model.DeletionRecord, hasEdits bool) string {
	var hints strings.Builder
	if len(deletions) > 0 {
		hints.WriteString("\nRecently deleted content that might be relevant:\n")
		for i, d := range deletions {
			if i > 0 {
				hints.WriteString("\n")
			}
			fmt.Fprintf(&hints, "- %s...", truncate(d.DeletedText, hintChars))
		}
		hints.WriteString("\n")
	}
	if hasEdits {
		hints.WriteString("\nWriter's editing patterns suggest maintaining a consistent style.")
	}

	return fmt.Sprintf(`The following is a piece of writing. Provide %d different ways to continue
the next sentence or paragraph:

%s

%s

Continuations:`, n, text, hints.String())
}

// AnalyzeStyle returns a style profile of text: tone, voice, pacing,
// vocabulary level and sentence structure. A reply without a JSON object is
// returned under "raw_analysis".
func (s *Service) AnalyzeStyle(ctx context.Context, text string) (map[string]any, error) {
	if len([]rune(text)) < MinStyleText {
		return nil, ErrTextTooShort
	}

	req := s.request(GenerateParams{})
	req.MaxTokens = styleTokens
	req.Temperature = styleTemperature
	req.SystemPrompt = styleSystem
	req.UserPrompt = stylePrompt(truncate(text, styleTextLimit))

	reply, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return parseStyle(reply), nil
}

func stylePrompt(text string) string {
	return `Analyze the writing style of the following text and return a JSON object with these properties:
- tone: the overall tone (formal, informal, conversational, academic, etc.)
- voice: the narrative voice (first person, third person, etc.)
- pacing: how fast or slow the narrative moves
- vocabulary_level: simple, moderate, advanced
- sentence_structure: simple, complex, varied, etc.

Text to analyze:
` + text
}

func parseStyle(reply string) map[string]any {
	if m := jsonObject.FindString(reply); m != "" {
		var out map[string]any
		if err := json.Unmarshal([]byte(m), &out); err == nil {
			return out
		}
	}
	return map[string]any{"raw_analysis": reply}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsUpstream reports whether err came from the generation service.
func IsUpstream(err error) bool {
	var ue *generate.UpstreamError
	return errors.As(err, &ue)
}
