package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Every method is a single atomic operation on one task or one session's list.
type TaskStore interface {
	// Create saves a new task. The store assigns ID, CreatedAt and UpdatedAt
	// and writes them back into the given task.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// ListBySession returns every task owned by sessionID, newest CreatedAt
	// first. Tasks created at the same instant are returned newest-inserted
	// first. An empty (non-nil) slice is returned when the session has no tasks.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// Within a transaction the row is locked until the transaction ends.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateCompleted sets the completed flag of a task, refreshes UpdatedAt
	// and returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Task, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskTxFn runs inside a transaction with a TaskStore bound to it.
type TaskTxFn func(ctx context.Context, tasks TaskStore) error

// TaskTransactor runs a sequence of TaskStore calls atomically.
// The transaction is committed if fn returns nil and rolled back otherwise.
type TaskTransactor interface {
	RunInTx(ctx context.Context, fn TaskTxFn) error
}
