package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"budgeteer/internal/cli"
	"budgeteer/internal/events"
	"budgeteer/internal/httpapi"
	"budgeteer/internal/ledger"
	"budgeteer/internal/ledger/memory"
	"budgeteer/internal/ledger/sqlite"
	"budgeteer/internal/metrics"
	"budgeteer/internal/reminder"
	"budgeteer/internal/taxonomy"
	"budgeteer/internal/weather"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Metrics registry with the standard process collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricSet := metrics.New("budgeteer", registry)

	var store ledger.Store
	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = s
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		store = memory.New()
		logger.Info("Initialized memory backend")
	}

	opts := []ledger.Option{ledger.WithMetrics(metricSet)}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are optional; the ledger works without a broker.
			logger.Warn("Failed to connect AMQP publisher, continuing without events", "error", err)
		} else {
			opts = append(opts, ledger.WithEvents(publisher))
			logger.Info("Connected AMQP publisher", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	l := ledger.New(store, opts...)

	cats, err := taxonomy.LoadFileOrDefault(cfg.TaxonomyFile)
	if err != nil {
		logger.Error("Failed to load taxonomy", "error", err, "path", cfg.TaxonomyFile)
		os.Exit(1)
	}

	poller := weather.NewPoller(weather.NewSimulated(), cfg.WeatherInterval)

	srv := httpapi.NewServer(":"+cfg.Port, l, reminder.New(), cats,
		httpapi.WithWeather(poller),
		httpapi.WithDefaultState(cfg.DefaultState),
		httpapi.WithMetrics(metricSet, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		httpapi.WithLogger(logger),
	)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := l.Close(); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := poller.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		logger.Info("Starting budgeteer server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
