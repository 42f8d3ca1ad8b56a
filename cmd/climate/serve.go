package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-canvas/internal/adapter/geodata"
	httpadapter "github.com/couchcryptid/climate-canvas/internal/adapter/http"
	"github.com/couchcryptid/climate-canvas/internal/adapter/huggingface"
	kafkaadapter "github.com/couchcryptid/climate-canvas/internal/adapter/kafka"
	"github.com/couchcryptid/climate-canvas/internal/adapter/openai"
	"github.com/couchcryptid/climate-canvas/internal/adapter/sqlite"
	"github.com/couchcryptid/climate-canvas/internal/cache"
	"github.com/couchcryptid/climate-canvas/internal/config"
	"github.com/couchcryptid/climate-canvas/internal/dashboard"
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	deps := dashboard.Deps{
		Series: cache.NewSeriesCache(domain.GenerateSeries, cfg.SeriesCacheSize, metrics),
		Regions: geodata.NewChain(metrics, logger,
			geodata.FileSource{Path: cfg.RegionsFile},
			geodata.NewHTTPSource(cfg.RegionsURL, cfg.RegionsTimeout),
			geodata.EmbeddedSource{},
		),
	}

	// AI collaborators (feature-flagged via HF_API_KEY / SUMMARY_PROVIDER).
	if cfg.AIEnabled() {
		hf := huggingface.NewClient(huggingface.Options{
			Token:        cfg.HFAPIKey,
			BaseURL:      cfg.HFAPIURL,
			SummaryModel: cfg.HFSummaryModel,
			QAModel:      cfg.HFQAModel,
			Timeout:      cfg.HFTimeout,
		}, metrics, logger)
		deps.Summarizer, deps.Answerer = hf, hf
		logger.Info("hugging face inference enabled", "summary_model", cfg.HFSummaryModel, "qa_model", cfg.HFQAModel)
	} else {
		logger.Warn("HF_API_KEY not set; AI insights disabled")
	}
	if cfg.SummaryProvider == config.ProviderOpenAI {
		deps.Summarizer = openai.NewSummarizer(openai.Options{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.HFTimeout,
			MaxRetries: 2,
		}, metrics, logger)
		logger.Info("openai summaries enabled", "model", cfg.OpenAIModel)
	}

	if cfg.InsightsDBPath != "" {
		store, err := sqlite.Open(cfg.InsightsDBPath)
		if err != nil {
			logger.Error("failed to open insight store", "path", cfg.InsightsDBPath, "error", err)
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("insight store close error", "error", err)
			}
		}()
		deps.Store = store
		logger.Info("insight history enabled", "path", cfg.InsightsDBPath)
	}

	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, metrics, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		deps.Publisher = publisher
		logger.Info("forecast publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaForecastTopic)
	}

	svc := dashboard.New(deps, dashboard.Settings{
		Params:     cfg.GeneratorParams(),
		Horizon:    cfg.ForecastHorizon,
		CutoffYear: cfg.ForecastCutoffYear,
		RegionSeed: cfg.RegionsSeed,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Warm(ctx); err != nil {
		logger.Error("failed to prepare default series", "error", err)
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
