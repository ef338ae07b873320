package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/config"
	httpDelivery "github.com/skiconcierge/backend/internal/delivery/http"
	"github.com/skiconcierge/backend/internal/domain"
	"github.com/skiconcierge/backend/internal/infrastructure/anthropic"
	"github.com/skiconcierge/backend/internal/infrastructure/catalog"
	"github.com/skiconcierge/backend/internal/infrastructure/session"
	"github.com/skiconcierge/backend/internal/infrastructure/speech"
	"github.com/skiconcierge/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the concierge HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != "" {
			cfg.Server.Port = servePort
		}

		zap.L().Info("starting ski concierge backend",
			zap.String("version", "1.0.0"),
			zap.String("environment", cfg.Server.Environment),
			zap.String("port", cfg.Server.Port),
			zap.String("session_store", cfg.Session.Store),
		)

		service, closeFn, err := buildService(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(service))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildService wires configuration into the concierge use case.
// The returned func releases the session store.
func buildService(ctx context.Context, cfg *config.Config) (*usecase.ConciergeService, func(), error) {
	skis, err := catalog.Load(cfg.Matching.CatalogPath)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		return nil, nil, err
	}

	engine := anthropic.NewClient(anthropic.Config{
		APIKey:              cfg.Anthropic.APIKey,
		BaseURL:             cfg.Anthropic.BaseURL,
		Model:               cfg.Anthropic.Model,
		MaxTokens:           cfg.Anthropic.MaxTokens,
		Temperature:         cfg.Anthropic.Temperature,
		AnalysisTemperature: cfg.Anthropic.AnalysisTemperature,
		AnalysisPrompt:      usecase.ProfileAnalysisPrompt,
		RequestsPerSecond:   float64(cfg.RateLimit.LLM) / 60,
		MaxRetries:          cfg.Anthropic.MaxRetries,
	})

	var synthesizer domain.SpeechSynthesizer
	if cfg.Speech.Enabled {
		client := speech.NewClient(speech.Config{
			APIKey:  cfg.Speech.APIKey,
			BaseURL: cfg.Speech.BaseURL,
			Model:   cfg.Speech.Model,
			Voice:   cfg.Speech.Voice,
			Speed:   cfg.Speech.Speed,
		})
		// Enable debug mode in development environment
		client.SetDebug(cfg.Server.Environment == "development")
		synthesizer = client
	}

	zap.L().Info("concierge configured",
		zap.String("model", cfg.Anthropic.Model),
		zap.Bool("speech", cfg.Speech.Enabled),
		zap.Bool("analyze_profile", cfg.Matching.AnalyzeProfile),
		zap.Bool("fallback_to_catalog", cfg.Matching.FallbackToCatalog),
		zap.Int("catalog_categories", len(skis)),
	)

	service := usecase.NewConciergeService(
		store,
		engine,
		engine,
		synthesizer,
		usecase.NewMatchingService(skis, usecase.MatchConfig{
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		}),
		usecase.ConciergeServiceConfig{
			AnalyzeProfile:    cfg.Matching.AnalyzeProfile,
			FallbackToCatalog: cfg.Matching.FallbackToCatalog,
		},
	)

	return service, closeStore, nil
}

// newSessionStore opens the configured store
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (domain.SessionRepository, func(), error) {
	switch cfg.Store {
	case "redis":
		store, err := session.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store := session.NewMemoryStore(cfg.TTL)
		return store, func() { _ = store.Close() }, nil
	}
}
