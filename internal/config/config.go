// Package config loads writer backend settings from defaults, an optional
// config file, VIBE_ environment variables and bound CLI flags.
package config

import (
	"time"

	"github.com/rcliao/vibe-writer/internal/service"
	"github.com/rcliao/vibe-writer/internal/store"
)

// Config is the full set of settings.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage" json:"storage"`
	History  HistoryConfig  `mapstructure:"history" json:"history"`
	Memory   MemoryConfig   `mapstructure:"memory" json:"memory"`
	LLM      LLMConfig      `mapstructure:"llm" json:"llm"`
	Server   ServerConfig   `mapstructure:"server" json:"server"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
	Features FeaturesConfig `mapstructure:"features" json:"features"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend"`
	Dir           string        `mapstructure:"dir" json:"dir"`
	SQLitePath    string        `mapstructure:"sqlite_path" json:"sqlite_path"`
	RedisAddr     string        `mapstructure:"redis_addr" json:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" json:"redis_password,omitempty"`
	RedisDB       int           `mapstructure:"redis_db" json:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix" json:"redis_prefix"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
}

type HistoryConfig struct {
	MaxSize int `mapstructure:"max_size" json:"max_size"`
}

// MemoryConfig bounds the story memory collection. MaxChunks 0 is unbounded.
type MemoryConfig struct {
	MaxChunks int `mapstructure:"max_chunks" json:"max_chunks"`
}

// LLMConfig configures the OpenAI-compatible generation endpoint.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	APIKey      string        `mapstructure:"api_key" json:"api_key,omitempty"`
	Model       string        `mapstructure:"model" json:"model"`
	MaxTokens   int           `mapstructure:"max_tokens" json:"max_tokens"`
	Temperature float64       `mapstructure:"temperature" json:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries" json:"max_retries"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen" json:"listen"`
}

type LogConfig struct {
	Debug  bool `mapstructure:"debug" json:"debug"`
	JSON   bool `mapstructure:"json" json:"json"`
	Pretty bool `mapstructure:"pretty" json:"pretty"`
}

type FeaturesConfig struct {
	EditHistoryEnabled   bool `mapstructure:"edit_history_enabled" json:"edit_history_enabled"`
	AISuggestionsEnabled bool `mapstructure:"ai_suggestions_enabled" json:"ai_suggestions_enabled"`
}

// StoreOptions maps the storage section onto store.Options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Storage.Backend,
		Dir:        c.Storage.Dir,
		SQLitePath: c.Storage.SQLitePath,
		Redis: store.RedisOptions{
			Addr:     c.Storage.RedisAddr,
			Password: c.Storage.RedisPassword,
			DB:       c.Storage.RedisDB,
			Prefix:   c.Storage.RedisPrefix,
		},
	}
}

// ServiceConfig maps the settings the service applies per operation.
func (c *Config) ServiceConfig() service.Config {
	return service.Config{
		HistoryMaxSize:       c.History.MaxSize,
		MemoryMaxChunks:      c.Memory.MaxChunks,
		StorageTimeout:       c.Storage.Timeout,
		Model:                c.LLM.Model,
		MaxTokens:            c.LLM.MaxTokens,
		Temperature:          c.LLM.Temperature,
		EditHistoryEnabled:   c.Features.EditHistoryEnabled,
		AISuggestionsEnabled: c.Features.AISuggestionsEnabled,
	}
}

// Redacted returns a copy safe to expose, with secrets removed.
func (c *Config) Redacted() Config {
	out := *c
	out.Storage.RedisPassword = ""
	out.LLM.APIKey = ""
	return out
}
