package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VIBE_STORAGE_BACKEND.
const EnvPrefix = "VIBE"

// InitViper returns a viper instance with defaults registered from
// NewDefaultConfig, the config file read, and environment binding enabled.
// An explicit configFile must exist. Without one, config.{toml,yaml,yml,json}
// is looked up in the working directory and ./config; a missing file there
// is not an error.
//
// Precedence, highest first: bound flags, environment, config file, defaults.
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}

	if err := v.ReadInConfig(); err != nil {
		if configFile != "" || !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers every key so environment overrides apply to
// Unmarshal as well.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_password", d.Storage.RedisPassword)
	v.SetDefault("storage.redis_db", d.Storage.RedisDB)
	v.SetDefault("storage.redis_prefix", d.Storage.RedisPrefix)
	v.SetDefault("storage.timeout", d.Storage.Timeout)

	v.SetDefault("history.max_size", d.History.MaxSize)
	v.SetDefault("memory.max_chunks", d.Memory.MaxChunks)

	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_retries", d.LLM.MaxRetries)

	v.SetDefault("server.listen", d.Server.Listen)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetDefault("features.edit_history_enabled", d.Features.EditHistoryEnabled)
	v.SetDefault("features.ai_suggestions_enabled", d.Features.AISuggestionsEnabled)
}

// Load decodes v into a Config and validates it. OPENAI_API_KEY is used
// when llm.api_key is unset.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		v.BindEnv("openai_api_key", "OPENAI_API_KEY")
		cfg.LLM.APIKey = v.GetString("openai_api_key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
