package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-viz/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-viz/internal/adapter/kafka"
	"github.com/couchcryptid/climate-viz/internal/chart"
	"github.com/couchcryptid/climate-viz/internal/config"
	"github.com/couchcryptid/climate-viz/internal/observability"
	"github.com/couchcryptid/climate-viz/internal/pipeline"
	"github.com/couchcryptid/climate-viz/internal/report"
	"github.com/couchcryptid/climate-viz/internal/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// The report is optional; without REPORT_MANIFEST only the store is served.
	manifest := &report.Manifest{}
	if cfg.ReportManifest != "" {
		if manifest, err = report.LoadManifest(cfg.ReportManifest); err != nil {
			logger.Error("failed to load report manifest", "error", err)
			os.Exit(1)
		}
	}
	data, err := report.LoadDatasets(manifest)
	if err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}
	boundaries, err := report.LoadBoundaries(manifest)
	if err != nil {
		logger.Error("failed to load boundaries", "error", err)
		os.Exit(1)
	}

	builder := report.NewBuilder(data, boundaries, chart.PageOptions{AssetsHost: manifest.AssetsHost}, logger)
	pages := report.NewMemorySink()

	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("extremes publishing enabled", "topic", cfg.KafkaExtremesTopic)
	} else {
		logger.Info("extremes publishing disabled")
	}

	p := pipeline.New(builder, pages, publisher, logger, metrics)

	explorer, err := report.NewPageCache(builder, cfg.PageCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create page cache", "error", err)
		os.Exit(1)
	}

	srv, err := httpadapter.NewServer(cfg, httpadapter.Deps{
		Ready:    p,
		Pages:    pages,
		Explorer: explorer,
		Store:    storefront.New(cfg.StoreTitle, cfg.StoreFruits, metrics),
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Render the report into memory.
	go func() {
		if _, err := p.Run(ctx, manifest.Charts); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
