package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := LoadConfig("")
	s.Require().NoError(err)

	s.Equal(":8787", cfg.Server.Addr)
	s.Equal(10*time.Second, cfg.Server.ShutdownTimeout)

	s.Empty(cfg.Providers.Gemini.APIKey)
	s.Equal("gemini-2.5-flash", cfg.Providers.Gemini.Model)
	s.Equal("meta-llama/llama-3.1-8b-instruct", cfg.Providers.OpenRouter.Model)
	s.Equal("https://tecnofusion.it", cfg.Providers.OpenRouter.SiteURL)
	s.Equal("Tecnofusion", cfg.Providers.OpenRouter.AppName)
	s.Equal("llama-3.3-70b-versatile", cfg.Providers.Groq.Model)

	s.Equal(10, cfg.Assistant.HistoryWindow)
	s.InDelta(0.4, cfg.Assistant.Temperature, 0.001)
	s.Equal(20*time.Second, cfg.Assistant.AttemptTimeout)
	s.Equal([]string{"gemini", "openrouter", "groq"}, cfg.Assistant.FallbackOrder)
	s.True(cfg.Assistant.RateLimitEnabled)
	s.Equal(5, cfg.Assistant.RateLimitCapacity)
	s.Equal(2*time.Second, cfg.Assistant.RateLimitRefillRate)
	s.Equal(256, cfg.Assistant.CacheCapacity)
	s.Equal(3600, cfg.Assistant.CacheTTLSeconds)

	s.Equal("./data/navi.db", cfg.Store.DatabasePath)
	s.Empty(cfg.Leads.WebhookURL)
	s.Equal(10*time.Second, cfg.Leads.Timeout)
}

func (s *ConfigTestSuite) TestLoadFromFile() {
	content := []byte(`
server:
  addr: ":9090"
providers:
  gemini:
    api_key: "gm-key"
    model: "gemini-2.5-pro"
  groq:
    api_key: "gq-key"
assistant:
  history_window: 6
  temperature: 0.7
  fallback_order: ["groq", "gemini"]
leads:
  webhook_url: "https://script.google.com/macros/s/abc/exec"
`)
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	s.Require().NoError(err)

	s.Equal(":9090", cfg.Server.Addr)
	s.Equal("gm-key", cfg.Providers.Gemini.APIKey)
	s.Equal("gemini-2.5-pro", cfg.Providers.Gemini.Model)
	s.Equal("gq-key", cfg.Providers.Groq.APIKey)
	// Unset keys keep their defaults.
	s.Equal("llama-3.3-70b-versatile", cfg.Providers.Groq.Model)
	s.Equal(6, cfg.Assistant.HistoryWindow)
	s.InDelta(0.7, cfg.Assistant.Temperature, 0.001)
	s.Equal([]string{"groq", "gemini"}, cfg.Assistant.FallbackOrder)
	s.Equal("https://script.google.com/macros/s/abc/exec", cfg.Leads.WebhookURL)
}

func (s *ConfigTestSuite) TestEnvironmentOverridesDefaults() {
	s.T().Setenv("PROVIDERS_GEMINI_API_KEY", "env-key")
	s.T().Setenv("ASSISTANT_HISTORY_WINDOW", "4")

	cfg, err := LoadConfig("")
	s.Require().NoError(err)

	s.Equal("env-key", cfg.Providers.Gemini.APIKey)
	s.Equal(4, cfg.Assistant.HistoryWindow)
}

func (s *ConfigTestSuite) TestMalformedFileFails() {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("server: [not: valid"), 0o644))

	_, err := LoadConfig(path)
	s.Error(err)
}
