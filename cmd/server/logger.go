package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager/internal/config"
	"github.com/phrazzld/task-manager/internal/platform/logger"
)

// setupAppLogger installs the process-wide JSON logger at the configured level.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
