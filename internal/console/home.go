package console

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
)

// Filter selects which tasks Home shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterPending
)

func (f Filter) String() string {
	switch f {
	case FilterCompleted:
		return "completed"
	case FilterPending:
		return "pending"
	default:
		return "all"
	}
}

// EmptyTitleMessage is shown when the user submits a blank title.
const EmptyTitleMessage = "Task title cannot be empty"

// ErrEmptyTitle is returned by CheckTitle for blank titles.
var ErrEmptyTitle = errors.New("task title cannot be empty")

// Home is the state of the single console view: the full task list, the
// active filter, a loading flag and an error message. Results are applied in
// the order they arrive.
type Home struct {
	tasks   []*domain.Task
	filter  Filter
	loading bool
	errMsg  string
}

// NewHome returns an empty Home showing all tasks.
func NewHome() *Home {
	return &Home{tasks: []*domain.Task{}}
}

// Tasks returns the full, unfiltered list.
func (h *Home) Tasks() []*domain.Task {
	out := make([]*domain.Task, len(h.tasks))
	copy(out, h.tasks)
	return out
}

func (h *Home) Filter() Filter { return h.filter }

func (h *Home) Loading() bool { return h.loading }

// Err returns the current error message, or "".
func (h *Home) Err() string { return h.errMsg }

// SetFilter changes the active filter. The list itself is untouched.
func (h *Home) SetFilter(f Filter) {
	h.filter = f
}

// Visible derives the filtered view of the list.
func (h *Home) Visible() []*domain.Task {
	visible := make([]*domain.Task, 0, len(h.tasks))
	for _, task := range h.tasks {
		switch {
		case h.filter == FilterCompleted && !task.Completed:
		case h.filter == FilterPending && task.Completed:
		default:
			visible = append(visible, task)
		}
	}
	return visible
}

// BeginLoad marks the start of a list fetch.
func (h *Home) BeginLoad() {
	h.loading = true
}

// FinishLoad applies the outcome of a list fetch. Loading is cleared either
// way; on failure the previous list is kept.
func (h *Home) FinishLoad(tasks []*domain.Task, err error) {
	h.loading = false
	if err != nil {
		h.errMsg = err.Error()
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	h.tasks = tasks
	h.errMsg = ""
}

// CheckTitle rejects titles that are blank after trimming.
func (h *Home) CheckTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		h.errMsg = EmptyTitleMessage
		return ErrEmptyTitle
	}
	return nil
}

// ApplyAdd prepends a created task, or records the error.
func (h *Home) ApplyAdd(task *domain.Task, err error) {
	if err != nil {
		h.errMsg = err.Error()
		return
	}
	h.tasks = append([]*domain.Task{task}, h.tasks...)
	h.errMsg = ""
}

// ApplyStatus replaces the task with the same ID, or records the error.
func (h *Home) ApplyStatus(task *domain.Task, err error) {
	if err != nil {
		h.errMsg = err.Error()
		return
	}
	for i, existing := range h.tasks {
		if existing.ID == task.ID {
			h.tasks[i] = task
		}
	}
	h.errMsg = ""
}

// ApplyDelete removes the task with the given ID, or records the error.
func (h *Home) ApplyDelete(id uuid.UUID, err error) {
	if err != nil {
		h.errMsg = err.Error()
		return
	}
	kept := make([]*domain.Task, 0, len(h.tasks))
	for _, task := range h.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	h.tasks = kept
	h.errMsg = ""
}

// ClearError dismisses the error message.
func (h *Home) ClearError() {
	h.errMsg = ""
}
