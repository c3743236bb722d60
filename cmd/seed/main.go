package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/activity"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/auth"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/db"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/logger"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/queue"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/seed"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	slogLogger := logger.New()
	slog.SetDefault(slogLogger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database := db.New(cfg.Database)
	defer db.Close(database)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.RunMigrations(ctx, database,
		(*user.User)(nil),
		(*catalog.Service)(nil),
		(*queue.Entry)(nil),
		(*queue.History)(nil),
		(*activity.Activity)(nil),
		(*auth.RefreshToken)(nil),
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := db.ApplyIndexes(ctx, database, queue.OneActiveEntryPerUserIndex); err != nil {
		return fmt.Errorf("apply indexes: %w", err)
	}

	// No meter is configured for the one-shot seeder, repositories
	// tolerate nil metrics.
	seeder := seed.New(
		user.NewRepository(database, nil),
		catalog.NewRepository(database, nil),
		queue.NewRepository(database, nil),
		activity.NewRepository(database, nil),
		slogLogger,
	)

	if err := seeder.Run(ctx); err != nil {
		return err
	}

	slogLogger.Info("seeding complete")
	return nil
}
