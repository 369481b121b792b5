// Package main implements the task console, a terminal client for the task
// service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/phrazzld/task-manager/internal/client"
	"github.com/phrazzld/task-manager/internal/config"
	"github.com/phrazzld/task-manager/internal/console"
	"github.com/phrazzld/task-manager/internal/platform/logger"
	"github.com/phrazzld/task-manager/internal/session"
)

func main() {
	resetSession := flag.Bool("reset-session", false,
		"forget the stored session identifier and start with an empty task list")
	flag.Parse()

	if err := run(*resetSession); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}

func run(resetSession bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConsole()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closeLog, err := setupConsoleLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	sessions := session.NewManager(cfg.Session.File, session.WithLogger(log))
	if resetSession {
		if err := sessions.Clear(); err != nil {
			return err
		}
		log.Info("session reset", "path", sessions.Path())
	}

	api, err := newAPIClient(cfg.Client, sessions, log)
	if err != nil {
		return err
	}

	return console.Run(ctx, api)
}

// newAPIClient builds the task service client from configuration.
func newAPIClient(cfg config.ClientConfig, sessions client.SessionSource, log *slog.Logger) (*client.Client, error) {
	return client.New(cfg.BaseURL, sessions,
		client.WithTimeout(cfg.Timeout),
		client.WithRetryPolicy(client.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
		}),
		client.WithLogger(log),
	)
}

// setupConsoleLogger logs to cfg.File when set. Otherwise logs are
// discarded, since the terminal belongs to the UI.
func setupConsoleLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	out := io.Discard
	closeFn := func() {}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Level, Output: out})
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, closeFn, nil
}
