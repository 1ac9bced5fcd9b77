package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tecnofusion-it/navi/navi/assistant"
	"github.com/tecnofusion-it/navi/navi/assistant/adapters"
	ports "github.com/tecnofusion-it/navi/navi/assistant/ports"
	"github.com/tecnofusion-it/navi/navi/assistant/providers"
	"github.com/tecnofusion-it/navi/navi/config"
	"github.com/tecnofusion-it/navi/navi/db"
	"github.com/tecnofusion-it/navi/navi/leads"
	"github.com/tecnofusion-it/navi/navi/readme"
	"github.com/tecnofusion-it/navi/navi/server"

	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if *debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if err := run(logger, *configPath); err != nil {
		logger.Fatal().Err(err).Msg("service failed")
	}
}

func run(logger zerolog.Logger, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	gemini, err := providers.NewGemini(ctx, cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model, cfg.Assistant.Temperature)
	if err != nil {
		return err
	}
	registry := assistant.NewRegistry(
		gemini,
		providers.NewOpenRouter(providers.RESTConfig{
			APIKey:      cfg.Providers.OpenRouter.APIKey,
			Model:       cfg.Providers.OpenRouter.Model,
			Temperature: cfg.Assistant.Temperature,
		}, cfg.Providers.OpenRouter.SiteURL, cfg.Providers.OpenRouter.AppName),
		providers.NewGroq(providers.RESTConfig{
			APIKey:      cfg.Providers.Groq.APIKey,
			Model:       cfg.Providers.Groq.Model,
			Temperature: cfg.Assistant.Temperature,
		}),
	)

	configured := registry.Configured()
	if len(configured) == 0 {
		logger.Warn().Msg("no provider credential set; assistants will refuse every request")
	} else {
		names := make([]string, len(configured))
		for i, id := range configured {
			names[i] = string(id)
		}
		logger.Info().Strs("providers", names).Msg("configured providers")
	}

	orchestrator := assistant.NewOrchestrator(
		registry,
		adapters.NewZerologTracer(logger),
		cfg.Assistant.AttemptTimeout,
	)

	order := resolveOrder(cfg.Assistant.FallbackOrder, logger)
	customer := assistant.NewCustomerAssistant(orchestrator, cfg.Assistant.HistoryWindow, logger, order...)
	staff := assistant.NewStaffAssistant(orchestrator, cfg.Assistant.HistoryWindow, logger, order...)

	var limiter ports.RateLimiter = adapters.NopRateLimiter{}
	if cfg.Assistant.RateLimitEnabled {
		limiter = adapters.NewTokenBucket(cfg.Assistant.RateLimitCapacity, cfg.Assistant.RateLimitRefillRate)
	}

	analyzer := readme.NewAnalyzer(
		orchestrator,
		adapters.NewLRUCache(cfg.Assistant.CacheCapacity),
		cfg.Assistant.CacheTTLSeconds,
		logger,
	)

	exporter := leads.NewExporter(cfg.Leads.WebhookURL, cfg.Leads.Timeout, logger)
	defer exporter.Close()

	srv := &server.Server{
		Customer: customer,
		Staff:    staff,
		Analyzer: analyzer,
		Store:    adapters.NewLibSQLConversationStore(database),
		Limiter:  limiter,
		Exporter: exporter,
		Logger:   logger,
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// resolveOrder maps configured provider names to known IDs, dropping and
// logging anything unknown.
func resolveOrder(names []string, logger zerolog.Logger) []ports.ProviderID {
	var order []ports.ProviderID
	for _, name := range names {
		id, ok := ports.ParseProviderID(name)
		if !ok {
			logger.Warn().Str("provider", name).Msg("unknown provider in fallback order, ignoring")
			continue
		}
		order = append(order, id)
	}
	return order
}
