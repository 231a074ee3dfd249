package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-facturas/internal/config"
	"github.com/diewo77/go-facturas/internal/db"
	"github.com/diewo77/go-facturas/internal/handlers"
	"github.com/diewo77/go-facturas/internal/logger"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/session"
	"github.com/diewo77/go-facturas/view"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.App.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("connecting to database", zap.String("driver", cfg.Database.Driver))
	dbConn, err := db.Open(cfg.Database, cfg.App.Dev)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed")
		return nil
	}
	if err := db.Seed(dbConn); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if *seedOnlyFlag {
		log.Info("seeding completed")
		return nil
	}

	view.SetDev(cfg.App.Dev)

	api := services.NewInvoiceService(dbConn, services.Latency{
		Fetch: cfg.Mock.FetchLatency,
		Pay:   cfg.Mock.PayLatency,
	}, log.Named("service"))
	registry := screens.NewRegistry(api, cfg.App.PageSize, cfg.Session.TTL, log.Named("screens"))
	runner := handlers.NewRunner(log.Named("runner"))
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, !cfg.App.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go registry.Janitor(ctx, time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(dbConn, api, registry, runner, sessions, cfg.App.PageSize, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("error during shutdown", zap.Error(err))
	}
	runner.Wait()
	log.Info("server stopped gracefully")
	return nil
}
