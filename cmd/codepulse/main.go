package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codepulse-lab/codepulse/internal/analytics"
	"github.com/codepulse-lab/codepulse/internal/core/config"
	"github.com/codepulse-lab/codepulse/internal/core/storage/sqlstore"
	"github.com/codepulse-lab/codepulse/internal/dashboard"
	"github.com/codepulse-lab/codepulse/internal/ingestion"
	"github.com/codepulse-lab/codepulse/internal/migrations"
	"github.com/codepulse-lab/codepulse/internal/server"
)

func main() {
	configPath := flag.String("config", "codepulse.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	loc, err := cfg.Reports.Location()
	if err != nil {
		slog.Error("Failed to resolve reports timezone", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage
	db, err := sqlstore.Open(
		cfg.Database.Driver,
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}

	// 2.1. Run Database Migrations
	if err := migrations.Run(db, cfg.Database.Driver, cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		db.Close()
		os.Exit(1)
	}

	store, err := sqlstore.NewAdapter(db, cfg.Database.Driver)
	if err != nil {
		slog.Error("Failed to initialize record store", "error", err)
		db.Close()
		os.Exit(1)
	}
	defer store.Close()

	// 3. Initialize Ingestion (write path)
	ingestionSvc := ingestion.NewService(store, cfg.Server.MaxBodySizeMB)

	// 4. Initialize Analytics (query API)
	analyticsSvc := analytics.NewService(
		store,
		loc,
		cfg.Reports.WindowDays,
		cfg.Reports.TopProjectsLimit,
	)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode)
	ingestionSvc.RegisterRoutes(srv.Engine)
	analyticsSvc.RegisterRoutes(srv.Engine)
	dashboard.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
