// sheets-export copies the ledger's transactions into a Google Sheet. By
// default it is a one-shot tool: open the store, append every row, exit.
// With -follow it keeps consuming ledger events from AMQP and appends new
// transactions as they are created.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"budgeteer/internal/cli"
	"budgeteer/internal/events"
	gexport "budgeteer/internal/export/google"
	"budgeteer/internal/ledger"
	"budgeteer/internal/ledger/sqlite"
)

func main() {
	follow := flag.Bool("follow", false, "keep running and export transactions as ledger events arrive")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.DataBackend != "sqlite" {
		logger.Error("Export requires the sqlite backend; the memory store has nothing to export across processes")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	l := ledger.New(store)
	defer func() {
		if err := l.Close(); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
	}()

	exporter, err := gexport.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	txns, err := l.Transactions(ctx)
	if err != nil {
		cancel()
		logger.Error("Failed to list transactions", "error", err)
		os.Exit(1)
	}
	exported, err := exporter.ExportAll(ctx, txns)
	cancel()
	if err != nil {
		logger.Error("Export stopped", "error", err, "exported", exported, "total", len(txns))
		os.Exit(1)
	}
	logger.Info("Export complete", "exported", exported)

	if !*follow {
		return
	}
	if cfg.AMQPURL == "" {
		logger.Error("Follow mode requires AMQP_URL")
		os.Exit(1)
	}

	consumer, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect AMQP consumer", "error", err)
		os.Exit(1)
	}

	runCtx := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := consumer.Close(); err != nil {
			logger.Error("Consumer close error", "error", err)
		}
	})

	logger.Info("Following ledger events", "queue", cfg.AMQPQueue)
	err = consumer.Consume(runCtx, func(ev *events.LedgerEvent) error {
		if ev.Entity != events.EntityTransaction || ev.Action != events.ActionCreated {
			return nil
		}
		opCtx, opCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer opCancel()

		t, err := l.Transaction(opCtx, ev.ID)
		if err != nil {
			return err
		}
		if err := exporter.Append(opCtx, t); err != nil {
			return err
		}
		logger.Info("Exported transaction", "id", ev.ID)
		return nil
	})
	if err != nil && runCtx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped gracefully")
}
