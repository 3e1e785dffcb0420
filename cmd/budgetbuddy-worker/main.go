package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/backend"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/config"
	"budgetbuddy/internal/log"
	gsheet "budgetbuddy/internal/sheets/google"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger.Logger, (*config.Config).ValidateWorker)

	ctx, stop := cli.SignalContext(logger.Logger)
	defer stop()

	logger.Info("Starting budgetbuddy-worker")

	// The worker reads the same document as the server to reconcile.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	blob, cleanup, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage).Logger).CreateBlob(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()
	store := storage.NewStore(blob)

	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	if err := sheetsClient.EnsureHeader(ctx); err != nil {
		logger.Error("Failed to prepare spreadsheet", log.FieldError, err, "sheet", cfg.GoogleSheetName)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(sheetsClient, sheetsClient)

	// Catch up on anything recorded while the worker was down.
	logger.Info("Performing startup reconcile")
	if err := mirror.Reconcile(ctx, store.Load(ctx)); err != nil {
		logger.Error("Startup reconcile failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, mirror.HandleEvent)
	})
	if cfg.ReconcileInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.ReconcileInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if err := mirror.Reconcile(gctx, store.Load(gctx)); err != nil {
						logger.Error("Periodic reconcile failed", log.FieldError, err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
