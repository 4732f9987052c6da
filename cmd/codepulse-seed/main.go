// Command codepulse-seed populates the record store with generated
// activity so the dashboard has something to show on a fresh install.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
	"github.com/codepulse-lab/codepulse/internal/core/config"
	"github.com/codepulse-lab/codepulse/internal/core/storage"
	"github.com/codepulse-lab/codepulse/internal/core/storage/sqlstore"
	"github.com/codepulse-lab/codepulse/internal/migrations"
	"github.com/codepulse-lab/codepulse/internal/seed"
)

func main() {
	configPath := flag.String("config", "codepulse.yaml", "Path to configuration file")
	profilePath := flag.String("profile", "", "Path to seed profile (YAML, optional)")
	workers := flag.Int("workers", 4, "Number of concurrent insert workers")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Reports.Location()
	if err != nil {
		slog.Error("Failed to resolve reports timezone", "error", err)
		os.Exit(1)
	}

	profile := seed.DefaultProfile()
	if *profilePath != "" {
		profile, err = seed.LoadProfile(*profilePath)
		if err != nil {
			slog.Error("Failed to load seed profile", "error", err)
			os.Exit(1)
		}
	}

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
	defer db.Close()

	if err := migrations.Run(db, cfg.Database.Driver, cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	store, err := sqlstore.NewAdapter(db, cfg.Database.Driver)
	if err != nil {
		slog.Error("Failed to initialize record store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	records := seed.Generate(profile, time.Now(), loc)
	slog.Info("Generated seed records", "count", len(records), "days", profile.Days)

	inserted, skipped, err := insertAll(context.Background(), store, records, *workers)
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Seeding complete", "inserted", inserted, "skipped", skipped)
}

// insertAll writes records concurrently. Records already present in the
// store count as skipped rather than failing the run.
func insertAll(ctx context.Context, store storage.RecordStore, records []*v1.SessionRecord, workers int) (inserted, skipped int64, err error) {
	if workers < 1 {
		workers = 1
	}

	var insertedCount, skippedCount atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, record := range records {
		g.Go(func() error {
			switch err := store.SaveRecord(gctx, record); {
			case err == nil:
				insertedCount.Add(1)
				return nil
			case errors.Is(err, storage.ErrDuplicate):
				skippedCount.Add(1)
				return nil
			default:
				return err
			}
		})
	}

	if err := g.Wait(); err != nil {
		return insertedCount.Load(), skippedCount.Load(), err
	}
	return insertedCount.Load(), skippedCount.Load(), nil
}
