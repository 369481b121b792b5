package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-manager/internal/config"
	"github.com/phrazzld/task-manager/internal/platform/memory"
	"github.com/phrazzld/task-manager/internal/platform/postgres"
	"github.com/phrazzld/task-manager/internal/service"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the memory driver is used.
	db *sql.DB

	taskRepo    service.TaskRepository
	taskService service.TaskService
}

// newApplication selects the task store named by the configuration, runs
// pending migrations if enabled and builds the service layer on top.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory task store; tasks are lost on restart")
		app.taskRepo = memory.NewTaskStore(logger)

	case "postgres":
		db, err := setupAppDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
				app.cleanup()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		app.taskRepo = postgres.NewPostgresTaskStore(db, logger)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return app.withServices()
}

// withServices builds the service layer over app.taskRepo.
func (app *application) withServices() (*application, error) {
	taskService, err := service.NewTaskService(app.taskRepo, app.logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.taskService = taskService
	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
		app.db = nil
	}
}
