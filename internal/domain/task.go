package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskTitleLength is the maximum number of characters in a task title.
const MaxTaskTitleLength = 500

// Task is a titled unit of work with a completion flag, owned by exactly one
// session. ID, CreatedAt and UpdatedAt are assigned by the store.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTask creates an unsaved, pending Task for the given session.
// The title is trimmed before validation.
func NewTask(sessionID, title string) (*Task, error) {
	task := &Task{
		Title:     strings.TrimSpace(title),
		Completed: false,
		SessionID: sessionID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the fields a client controls. It does not require an ID
// because tasks are validated before the store assigns one.
func (t *Task) Validate() error {
	if err := ValidateSessionID(t.SessionID); err != nil {
		return err
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrEmptyContent)
	}

	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return NewValidationError("title", "is too long", ErrContentTooLong)
	}

	return nil
}

// OwnedBy reports whether the task belongs to the given session.
// This is a plain string comparison against an unauthenticated token.
func (t *Task) OwnedBy(sessionID string) bool {
	return t.SessionID == sessionID
}

// SetCompleted changes the completion flag and refreshes UpdatedAt.
func (t *Task) SetCompleted(completed bool, now time.Time) {
	t.Completed = completed
	t.UpdatedAt = now.UTC()
}
