// Package service is the writer backend's application layer. It serializes
// work per project and runs each operation as load, mutate, save against the
// configured storage backend.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/history"
	"github.com/rcliao/vibe-writer/internal/logger"
	"github.com/rcliao/vibe-writer/internal/memory"
	"github.com/rcliao/vibe-writer/internal/metrics"
	"github.com/rcliao/vibe-writer/internal/store"
)

var (
	// ErrFeatureDisabled is returned when a feature flag turns an operation off.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrNoGenerator is returned by generation operations when no generator
	// is configured.
	ErrNoGenerator = errors.New("text generation is not configured")

	// ErrTextTooShort is returned by AnalyzeStyle for text under MinStyleText runes.
	ErrTextTooShort = errors.New("text too short for meaningful analysis")
)

// Config holds the tunables the service applies to every project.
type Config struct {
	HistoryMaxSize  int
	MemoryMaxChunks int
	StorageTimeout  time.Duration

	Model       string
	MaxTokens   int
	Temperature float64

	EditHistoryEnabled   bool
	AISuggestionsEnabled bool
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		HistoryMaxSize:       history.DefaultMaxSize,
		StorageTimeout:       5 * time.Second,
		MaxTokens:            100,
		Temperature:          0.7,
		EditHistoryEnabled:   true,
		AISuggestionsEnabled: true,
	}
}

// Service implements every writer operation. It is safe for concurrent use.
type Service struct {
	backend store.Backend
	gen     generate.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
	cfg     Config

	locks keyedMutex
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator sets the text generator used by Complete, Suggest and
// AnalyzeStyle.
func WithGenerator(g generate.Generator) Option {
	return func(s *Service) { s.gen = g }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a Service over backend.
func New(backend store.Backend, cfg Config, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		cfg:     cfg,
		logger:  logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the active configuration.
func (s *Service) Config() Config { return s.cfg }

// lock validates the project name and takes its lock.
func (s *Service) lock(project string) (func(), error) {
	if err := store.ValidateProject(project); err != nil {
		return nil, err
	}
	return s.locks.Lock(project), nil
}

func (s *Service) openHistory(ctx context.Context, project string) (*history.History, error) {
	h, err := history.Open(ctx, s.backend, project,
		history.WithMaxSize(s.cfg.HistoryMaxSize),
		history.WithTimeout(s.cfg.StorageTimeout),
		history.WithLogger(s.logger),
		history.WithClock(s.now),
	)
	if err != nil {
		s.metrics.StorageFailed("load")
		return nil, err
	}
	return h, nil
}

func (s *Service) openMemories(ctx context.Context, project string) (*memory.Store, error) {
	m, err := memory.Open(ctx, s.backend, project,
		memory.WithMaxChunks(s.cfg.MemoryMaxChunks),
		memory.WithTimeout(s.cfg.StorageTimeout),
		memory.WithLogger(s.logger),
		memory.WithClock(s.now),
	)
	if err != nil {
		s.metrics.StorageFailed("load")
		return nil, err
	}
	return m, nil
}

// saved counts a failed save and passes err through.
func (s *Service) saved(err error) error {
	if err != nil {
		s.metrics.StorageFailed("save")
	}
	return err
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StorageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}
