package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/task-manager/internal/store"
)

var (
	// ErrTaskNotFound indicates that no task exists with the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotOwned indicates that the task belongs to a different session
	// than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrTaskNotOwned = errors.New("task is owned by another session")
)

// TaskServiceError wraps unexpected errors from the task service with the
// operation that failed.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors are returned directly without wrapping, and store
// not-found errors are translated to ErrTaskNotFound.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrTaskNotOwned):
		return ErrTaskNotOwned
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
