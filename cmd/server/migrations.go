package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager/internal/config"
	"github.com/phrazzld/task-manager/internal/platform/postgres"
)

// handleMigrations runs a single goose command against the configured
// database and returns.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	logger.Info("Executing migrations",
		"command", command,
		"database", maskDatabaseURL(cfg.Database.URL))

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database connection", "error", cerr)
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
