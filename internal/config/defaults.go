package config

import (
	"time"

	"github.com/rcliao/vibe-writer/internal/generate"
	"github.com/rcliao/vibe-writer/internal/history"
	"github.com/rcliao/vibe-writer/internal/store"
)

// NewDefaultConfig returns the built-in settings.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     store.BackendFile,
			Dir:         "data/projects",
			SQLitePath:  "data/vibe-writer.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: store.DefaultRedisPrefix,
			Timeout:     5 * time.Second,
		},
		History: HistoryConfig{MaxSize: history.DefaultMaxSize},
		LLM: LLMConfig{
			BaseURL:     generate.DefaultBaseURL,
			Model:       generate.DefaultModel,
			MaxTokens:   100,
			Temperature: 0.7,
			Timeout:     60 * time.Second,
			MaxRetries:  2,
		},
		Server: ServerConfig{Listen: ":8000"},
		Features: FeaturesConfig{
			EditHistoryEnabled:   true,
			AISuggestionsEnabled: true,
		},
	}
}
