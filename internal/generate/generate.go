// Package generate talks to the text generation service used for
// completions, suggestions and style analysis.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// ErrTemperature is returned for a temperature outside [0,1].
var ErrTemperature = errors.New("temperature must be between 0 and 1")

// Request is one generation call.
type Request struct {
	UserPrompt   string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Validate checks the request parameters.
func (r Request) Validate() error {
	if r.Temperature < 0 || r.Temperature > 1 {
		return fmt.Errorf("%w: got %v", ErrTemperature, r.Temperature)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative: got %d", r.MaxTokens)
	}
	return nil
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// UpstreamError reports a failed call to the generation service.
type UpstreamError struct {
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("generation upstream: status %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("generation upstream: status %d", e.StatusCode)
	default:
		return fmt.Sprintf("generation upstream: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Temporary reports whether retrying may succeed: transport failures,
// rate limiting and server errors.
func (e *UpstreamError) Temporary() bool {
	if e.StatusCode == 0 {
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}
