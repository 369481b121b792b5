package console

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(title string, completed bool) *domain.Task {
	return &domain.Task{ID: uuid.New(), Title: title, Completed: completed}
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestHome_Load(t *testing.T) {
	h := NewHome()
	assert.False(t, h.Loading())

	h.BeginLoad()
	assert.True(t, h.Loading())

	h.FinishLoad([]*domain.Task{task("b", false), task("a", true)}, nil)
	assert.False(t, h.Loading())
	assert.Equal(t, []string{"b", "a"}, titles(h.Tasks()))
	assert.Empty(t, h.Err())
}

func TestHome_LoadFailureKeepsList(t *testing.T) {
	h := NewHome()
	h.FinishLoad([]*domain.Task{task("a", false)}, nil)

	h.BeginLoad()
	h.FinishLoad(nil, errors.New("Unable to fetch tasks. Please try again."))

	assert.False(t, h.Loading())
	assert.Equal(t, "Unable to fetch tasks. Please try again.", h.Err())
	assert.Equal(t, []string{"a"}, titles(h.Tasks()))
}

func TestHome_Add(t *testing.T) {
	h := NewHome()
	h.FinishLoad([]*domain.Task{task("old", false)}, nil)

	h.ApplyAdd(nil, errors.New("Unable to add task. Please try again."))
	assert.Equal(t, "Unable to add task. Please try again.", h.Err())
	assert.Equal(t, []string{"old"}, titles(h.Tasks()))

	h.ApplyAdd(task("new", false), nil)
	assert.Equal(t, []string{"new", "old"}, titles(h.Tasks()))
	assert.Empty(t, h.Err(), "a successful action clears the error")
}

func TestHome_CheckTitle(t *testing.T) {
	h := NewHome()

	for _, title := range []string{"", "   ", "\t"} {
		assert.ErrorIs(t, h.CheckTitle(title), ErrEmptyTitle)
		assert.Equal(t, EmptyTitleMessage, h.Err())
	}
	h.ClearError()

	assert.NoError(t, h.CheckTitle("Buy milk"))
	assert.Empty(t, h.Err())
}

func TestHome_Status(t *testing.T) {
	a, b := task("a", false), task("b", false)
	h := NewHome()
	h.FinishLoad([]*domain.Task{a, b}, nil)

	updated := *b
	updated.Completed = true
	h.ApplyStatus(&updated, nil)

	tasks := h.Tasks()
	require.Len(t, tasks, 2)
	assert.False(t, tasks[0].Completed)
	assert.True(t, tasks[1].Completed)

	h.ApplyStatus(nil, errors.New("Unable to update task. Please try again."))
	assert.NotEmpty(t, h.Err())
	assert.True(t, h.Tasks()[1].Completed)
}

func TestHome_Delete(t *testing.T) {
	a, b := task("a", false), task("b", false)
	h := NewHome()
	h.FinishLoad([]*domain.Task{a, b}, nil)

	h.ApplyDelete(a.ID, errors.New("Unable to delete task. Please try again."))
	assert.Len(t, h.Tasks(), 2)

	h.ApplyDelete(a.ID, nil)
	assert.Equal(t, []string{"b"}, titles(h.Tasks()))
	assert.Empty(t, h.Err())
}

func TestHome_FilterIsDerived(t *testing.T) {
	h := NewHome()
	h.FinishLoad([]*domain.Task{task("done", true), task("todo", false), task("also done", true)}, nil)
	before := titles(h.Tasks())

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"done", "todo", "also done"}},
		{FilterCompleted, []string{"done", "also done"}},
		{FilterPending, []string{"todo"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			h.SetFilter(tt.filter)
			assert.Equal(t, tt.filter, h.Filter())
			assert.Equal(t, tt.want, titles(h.Visible()))
			assert.Equal(t, before, titles(h.Tasks()), "filtering must not change the list")
		})
	}
}

func TestHome_LastResponseWins(t *testing.T) {
	h := NewHome()
	h.FinishLoad([]*domain.Task{task("first", false)}, nil)
	h.FinishLoad([]*domain.Task{task("second", false)}, nil)
	assert.Equal(t, []string{"second"}, titles(h.Tasks()))
}
