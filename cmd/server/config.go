package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager/internal/config"
)

// loadAppConfig loads the service configuration and logs a safe summary.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url", maskDatabaseURL(cfg.Database.URL))
	}

	return cfg, nil
}
