package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/phrazzld/task-manager/internal/platform/logger"
	"github.com/phrazzld/task-manager/internal/redact"
	"github.com/phrazzld/task-manager/internal/store"
)

// TaskRepository is the persistence the task service needs: single task
// operations plus the ability to group them in a transaction.
type TaskRepository interface {
	store.TaskStore
	store.TaskTransactor
}

// TaskService provides session-scoped task operations.
type TaskService interface {
	// ListTasks returns every task of the session, newest first.
	ListTasks(ctx context.Context, sessionID string) ([]*domain.Task, error)

	// CreateTask creates a pending task with the given title for the session.
	CreateTask(ctx context.Context, sessionID, title string) (*domain.Task, error)

	// UpdateTaskStatus sets the completed flag of a task owned by the session.
	// Returns ErrTaskNotFound or ErrTaskNotOwned.
	UpdateTaskStatus(
		ctx context.Context,
		sessionID string,
		taskID uuid.UUID,
		completed bool,
	) (*domain.Task, error)

	// DeleteTask removes a task owned by the session.
	// Returns ErrTaskNotFound or ErrTaskNotOwned.
	DeleteTask(ctx context.Context, sessionID string, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	repo   TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a TaskService backed by repo.
// It returns an error if repo is nil.
func NewTaskService(repo TaskRepository, logger *slog.Logger) (TaskService, error) {
	if repo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "repo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		repo:   repo,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// log prefers the request-scoped logger carried in ctx.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, sessionID string) ([]*domain.Task, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		s.log(ctx).Error("failed to list tasks", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("list_tasks", "failed to retrieve tasks", err)
	}

	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	sessionID, title string,
) (*domain.Task, error) {
	task, err := domain.NewTask(sessionID, title)
	if err != nil {
		s.log(ctx).Debug("rejected invalid task", slog.String("error", redact.Error(err)))
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.log(ctx).Error("failed to create task", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.log(ctx).Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	sessionID string,
	taskID uuid.UUID,
	completed bool,
) (*domain.Task, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		if err := s.requireOwner(ctx, tasks, sessionID, taskID); err != nil {
			return err
		}

		var err error
		updated, err = tasks.UpdateCompleted(ctx, taskID, completed)
		return err
	})
	if err != nil {
		return nil, s.mutationError(ctx, "update_task_status", "failed to update task", taskID, err)
	}

	s.log(ctx).Info("task status updated",
		slog.String("task_id", taskID.String()),
		slog.Bool("completed", completed))
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, sessionID string, taskID uuid.UUID) error {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return err
	}

	err := s.repo.RunInTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		if err := s.requireOwner(ctx, tasks, sessionID, taskID); err != nil {
			return err
		}
		return tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return s.mutationError(ctx, "delete_task", "failed to delete task", taskID, err)
	}

	s.log(ctx).Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// requireOwner loads the task and fails unless sessionID owns it.
func (s *taskServiceImpl) requireOwner(
	ctx context.Context,
	tasks store.TaskStore,
	sessionID string,
	taskID uuid.UUID,
) error {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.OwnedBy(sessionID) {
		return ErrTaskNotOwned
	}
	return nil
}

func (s *taskServiceImpl) mutationError(
	ctx context.Context,
	operation, message string,
	taskID uuid.UUID,
	err error,
) error {
	mapped := NewTaskServiceError(operation, message, err)
	switch mapped {
	case ErrTaskNotFound, ErrTaskNotOwned:
		s.log(ctx).Debug("task mutation refused",
			slog.String("operation", operation),
			slog.String("task_id", taskID.String()),
			slog.String("reason", mapped.Error()))
	default:
		s.log(ctx).Error("task mutation failed",
			slog.String("operation", operation),
			slog.String("task_id", taskID.String()),
			slog.String("error", redact.Error(err)))
	}
	return mapped
}
