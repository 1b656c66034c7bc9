package main

import (
	"context"
	"errors"

	"backoffice/internal/amqp"
	"backoffice/internal/cli"
	"backoffice/internal/log"
	"backoffice/internal/services"
	"backoffice/internal/sheets"
	gsheet "backoffice/internal/sheets/google"
	"backoffice/internal/sheets/memory"
	"backoffice/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting backoffice-worker")

	ctx, stop := cli.SignalContext()
	defer stop()

	db, err := cli.OpenDB(ctx, cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to open database", err)
	}
	defer db.Close()

	var writer sheets.ReportWriter
	if cfg.GoogleSpreadsheetID != "" {
		if err := cfg.ValidateExport(); err != nil {
			cli.Fatal(logger, "Export configuration validation failed", err)
		}
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.ReportSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		writer = client
	} else {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, reports are kept in memory only")
		writer = memory.New()
	}

	reports := services.NewReportService(db, nil, logger)
	exports := worker.NewExportWorker(services.NewReportExporter(reports, writer, logger), cfg.ExportDebounce, logger)

	if err := exports.StartupExport(ctx); err != nil {
		// Not fatal: the next ledger event retries.
		logger.Error("Startup export failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return exports.Run(gctx) })

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize AMQP client", err)
		}
		defer client.Close()
		g.Go(func() error {
			err := client.ConsumeLedgerChanged(gctx, exports.HandleLedgerChanged)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Warn("AMQP_URL not set, only the start-up export runs")
	}

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Worker stopped", err)
	}
	logger.Info("Worker shutdown complete")
}
