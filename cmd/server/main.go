package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gossipnet/convergence-analysis-service/api"
	"github.com/gossipnet/convergence-analysis-service/config"
	"github.com/gossipnet/convergence-analysis-service/pkg/analysis"
	"github.com/gossipnet/convergence-analysis-service/service"
)

func main() {
	// Initialize structured logging with zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Local overrides, ignored when absent
	godotenv.Load()

	log.Info().Msg("🚀 Starting Convergence Analysis Backend")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pipelineCfg := analysis.NewConfig()
	if cfg.Pipeline.ConfigFile != "" {
		if err := pipelineCfg.LoadFromFile(cfg.Pipeline.ConfigFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.Pipeline.ConfigFile).Msg("Failed to load pipeline config")
		}
	}
	if cfg.Pipeline.ConvergenceCap > 0 {
		pipelineCfg.Set("pipeline.convergence_cap", cfg.Pipeline.ConvergenceCap)
	}
	if cfg.Pipeline.MetricColumn != "" {
		pipelineCfg.Set("pipeline.metric_column", cfg.Pipeline.MetricColumn)
	}

	log.Info().
		Str("address", cfg.Server.Address).
		Float64("convergence_cap", pipelineCfg.ConvergenceCap()).
		Str("metric_column", pipelineCfg.MetricColumn()).
		Msg("Configuration loaded")

	analysisService := service.NewAnalysisService(pipelineCfg)
	handlers := api.NewHandlers(analysisService)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)

	router.Use(api.LoggingMiddleware)
	router.Use(api.CORSMiddleware)
	router.Use(api.RecoveryMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("🌐 HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
