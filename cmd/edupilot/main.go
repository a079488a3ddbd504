// EduPilot - educational assessment chat server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/edupilot-ai/edupilot"
	"github.com/edupilot-ai/edupilot/artifact"
	"github.com/edupilot-ai/edupilot/core"
	"github.com/edupilot-ai/edupilot/generation"
	"github.com/edupilot-ai/edupilot/internal/config"
	"github.com/edupilot-ai/edupilot/logging"
	"github.com/edupilot-ai/edupilot/memory"
	"github.com/edupilot-ai/edupilot/model"
	anthropicmodel "github.com/edupilot-ai/edupilot/model/anthropic"
	openaimodel "github.com/edupilot-ai/edupilot/model/openai"
	"github.com/edupilot-ai/edupilot/orchestrator"
	"github.com/edupilot-ai/edupilot/repository"
	"github.com/edupilot-ai/edupilot/server"
	"github.com/edupilot-ai/edupilot/state"
	"github.com/edupilot-ai/edupilot/toolkit"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     cfg.LogLevel,
		Format:    "json",
		Output:    os.Stdout,
		Component: "edupilot",
	})

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	slog.Info("Starting server", "addr", cfg.Addr, "provider", cfg.Provider)

	extractor, generator := generationSteps(cfg, logger)

	store := state.NewInMemoryStore()
	mem := memory.NewInMemoryIndex()
	artifacts := artifact.NewInMemoryStore()
	repo := repository.NewInMemoryRepository()

	if _, err := store.CreateSession("system", core.StateDelta{
		core.KeyAppVersion:   edupilot.Version,
		core.KeyAppLanguages: edupilot.SupportedLanguages,
	}); err != nil {
		slog.Warn("app defaults not seeded", "error", err)
	}

	orch := orchestrator.New(store, extractor, generator, func(o *orchestrator.Options) {
		o.Memory = mem
		o.Artifacts = artifacts
		o.Repository = repo
		o.Logger = logger.WithComponent("orchestrator")
	})

	srv := server.New(orch, store, func(o *server.Options) {
		o.Memory = mem
		o.Artifacts = artifacts
		o.Repository = repo
		o.Logger = logger.WithComponent("server")
	})

	httpSrv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// generationSteps selects the generation backend from configuration. The
// builtin provider uses the deterministic toolkit generators.
func generationSteps(cfg *config.Config, logger logging.Logger) (core.ObjectiveExtractor, core.AssessmentGenerator) {
	var m model.Model
	switch cfg.Provider {
	case config.ProviderOpenAI:
		m = openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		})
	case config.ProviderAnthropic:
		m = anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropic.Model(cfg.ModelName)
			}
		})
	default:
		return toolkit.NewObjectiveExtractor(), toolkit.NewAssessmentBuilder()
	}

	slog.Info("Generation backend ready", "provider", m.Info().Provider, "model", m.Info().Name)
	extractor := generation.NewExtractor(m, func(o *generation.Options) { o.Logger = logger })
	generator := generation.NewGenerator(m, func(o *generation.Options) { o.Logger = logger })
	return extractor, generator
}
