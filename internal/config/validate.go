package config

import (
	"errors"
	"fmt"

	"github.com/rcliao/vibe-writer/internal/store"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Storage.Backend == store.BackendFile && c.Storage.Dir == "" {
		errs = append(errs, errors.New("storage.dir: required for the file backend"))
	}
	if c.Storage.Backend == store.BackendSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path: required for the sqlite backend"))
	}
	if c.Storage.Backend == store.BackendRedis && c.Storage.RedisAddr == "" {
		errs = append(errs, errors.New("storage.redis_addr: required for the redis backend"))
	}
	if c.Storage.Timeout < 0 {
		errs = append(errs, errors.New("storage.timeout: must not be negative"))
	}
	if c.History.MaxSize < 1 {
		errs = append(errs, fmt.Errorf("history.max_size: must be at least 1, got %d", c.History.MaxSize))
	}
	if c.Memory.MaxChunks < 0 {
		errs = append(errs, fmt.Errorf("memory.max_chunks: must not be negative, got %d", c.Memory.MaxChunks))
	}
	if c.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens: must not be negative, got %d", c.LLM.MaxTokens))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errs = append(errs, fmt.Errorf("llm.temperature: must be between 0 and 1, got %v", c.LLM.Temperature))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max_retries: must not be negative, got %d", c.LLM.MaxRetries))
	}
	return errors.Join(errs...)
}
