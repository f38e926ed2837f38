package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retrying retries temporary upstream failures with exponential backoff.
type Retrying struct {
	next       Generator
	maxRetries int
	initial    time.Duration
	logger     *slog.Logger
}

// NewRetrying wraps next. maxRetries of 0 disables retries.
func NewRetrying(next Generator, maxRetries int, logger *slog.Logger) *Retrying {
	return &Retrying{next: next, maxRetries: maxRetries, initial: 500 * time.Millisecond, logger: logger}
}

// Generate implements Generator.
func (r *Retrying) Generate(ctx context.Context, req Request) (string, error) {
	if r.maxRetries <= 0 {
		return r.next.Generate(ctx, req)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.initial
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.maxRetries)), ctx)

	var out string
	op := func() error {
		text, err := r.next.Generate(ctx, req)
		if err != nil {
			var ue *UpstreamError
			if errors.As(err, &ue) && ue.Temporary() {
				return err
			}
			return backoff.Permanent(err)
		}
		out = text
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if r.logger != nil {
			r.logger.Warn("retrying generation", "error", err, "wait", wait)
		}
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}
	return out, nil
}
