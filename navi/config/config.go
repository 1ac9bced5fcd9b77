package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/tecnofusion-it/navi/navi"

	"github.com/spf13/viper"
)

// Config stores all configuration of the assistant service.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Store     StoreConfig     `mapstructure:"store"`
	Leads     LeadsConfig     `mapstructure:"leads"`
}

// ServerConfig stores HTTP transport settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ProviderConfig stores one backend's credential and model name.
// An empty APIKey marks the provider unconfigured; that flag is derived once
// at startup and never re-evaluated mid-session.
type ProviderConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig adds the attribution metadata OpenRouter accepts in
// request headers. Cosmetic only, it does not affect behavior.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	SiteURL string `mapstructure:"site_url"`
	AppName string `mapstructure:"app_name"`
}

// ProvidersConfig stores the three text-generation backends.
type ProvidersConfig struct {
	Gemini     ProviderConfig   `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Groq       ProviderConfig   `mapstructure:"groq"`
}

// AssistantConfig stores orchestration and prompt-composition settings.
type AssistantConfig struct {
	// HistoryWindow is the number of most-recent conversation messages kept
	// when composing a prompt. The policy preamble is never truncated.
	HistoryWindow int `mapstructure:"history_window"`
	// Temperature is the fixed low sampling temperature sent to the REST
	// backends.
	Temperature float32 `mapstructure:"temperature"`
	// AttemptTimeout bounds each provider attempt so a hung backend cannot
	// block the whole fallback chain.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	// FallbackOrder is the default provider preference, cheapest or
	// highest-quality first. Unknown names are dropped at resolution time.
	FallbackOrder []string `mapstructure:"fallback_order"`

	// Rate limiting per conversation key.
	RateLimitEnabled    bool          `mapstructure:"rate_limit_enabled"`
	RateLimitCapacity   int           `mapstructure:"rate_limit_capacity"`
	RateLimitRefillRate time.Duration `mapstructure:"rate_limit_refill_rate"`

	// README analyzer cache.
	CacheCapacity   int `mapstructure:"cache_capacity"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// StoreConfig stores conversation persistence settings.
type StoreConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// LeadsConfig stores the contact-export webhook settings. An empty WebhookURL
// disables the export.
type LeadsConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Server defaults
	v.SetDefault("server.addr", ":8787")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Provider defaults. Credentials default to empty: absence of a
	// credential marks that provider unconfigured. The empty defaults also
	// register the keys so AutomaticEnv can override them.
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.openrouter.api_key", "")
	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.gemini.model", "gemini-2.5-flash")
	v.SetDefault("providers.openrouter.model", "meta-llama/llama-3.1-8b-instruct")
	v.SetDefault("providers.openrouter.site_url", "https://tecnofusion.it")
	v.SetDefault("providers.openrouter.app_name", "Tecnofusion")
	v.SetDefault("providers.groq.model", "llama-3.3-70b-versatile")

	// Assistant defaults
	v.SetDefault("assistant.history_window", 10)
	v.SetDefault("assistant.temperature", 0.4)
	v.SetDefault("assistant.attempt_timeout", "20s")
	v.SetDefault("assistant.fallback_order", []string{"gemini", "openrouter", "groq"})
	v.SetDefault("assistant.rate_limit_enabled", true)
	v.SetDefault("assistant.rate_limit_capacity", 5)
	v.SetDefault("assistant.rate_limit_refill_rate", "2s")
	v.SetDefault("assistant.cache_capacity", 256)
	v.SetDefault("assistant.cache_ttl_seconds", 3600)

	// Store defaults
	v.SetDefault("store.database_path", internal.DefaultDatabasePath)

	// Leads defaults
	v.SetDefault("leads.webhook_url", "")
	v.SetDefault("leads.timeout", "10s")

	v.AutomaticEnv()
	// Replace dots with underscores in env var names, e.g.
	// providers.gemini.api_key becomes PROVIDERS_GEMINI_API_KEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults and environment are enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}
