package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"backoffice/internal/amqp"
	"backoffice/internal/auth"
	"backoffice/internal/cache"
	"backoffice/internal/cli"
	"backoffice/internal/core"
	apphttp "backoffice/internal/http"
	"backoffice/internal/log"
	"backoffice/internal/services"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentApp)
	logger.Info("Starting backoffice server", "port", cfg.Port, "db_driver", cfg.DBDriver)

	ctx, stop := cli.SignalContext()
	defer stop()

	db, err := cli.OpenDB(ctx, cfg, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to open database", err)
	}
	defer db.Close()

	// Ledger events are optional; without a broker the export worker
	// only catches up at start-up.
	var notifier services.Notifier = services.NopNotifier{}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize AMQP client", err)
		}
		defer client.Close()
		notifier = services.NewAMQPNotifier(client, logger)
		logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Warn("AMQP_URL not set, ledger events disabled")
	}
	if cfg.AuthDisabled {
		logger.Warn("Authentication disabled, every endpoint is public")
	}

	reports := services.NewReportService(db, time.Now, logger)
	if cfg.ReportCacheTTL > 0 {
		monthly := cache.NewLRUCache[core.MonthlyReport](32, cfg.ReportCacheTTL)
		reports.WithMonthlyCache(monthly)
		notifier = services.Notifiers{reports, notifier}

		caches := cache.NewManager(logger)
		caches.Register(monthly)
		caches.StartCleanup(cfg.ReportCacheTTL)
		defer caches.Stop()
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	ids := services.NewIDAllocator(time.Now, logger)
	svc := apphttp.Services{
		Auth:     services.NewAuthService(db, tokens, logger),
		Tokens:   tokens,
		Reports:  reports,
		Products: services.NewProductService(db, notifier, logger),
		Expenses: services.NewExpenseService(db, notifier),
		Salaries: services.NewSalaryService(db, notifier, logger),
		Zarorrat: services.NewZarorratProjectService(db, ids, notifier, logger),
		Solar:    services.NewSolarService(db, ids, notifier, logger),
	}

	srv := apphttp.NewServer(net.JoinHostPort("", cfg.Port), svc, apphttp.Options{
		AuthDisabled: cfg.AuthDisabled,
		PageSize:     cfg.PageSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Ready:        db.Ping,
	}, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Server error", err)
	}
	logger.Info("Server stopped gracefully")
}
