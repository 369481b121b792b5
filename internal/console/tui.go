package console

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
)

// TaskAPI is the subset of the API client the console calls.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	CreateTask(ctx context.Context, title string) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, completed bool) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// Run starts the console on the terminal and blocks until the user quits.
func Run(ctx context.Context, api TaskAPI) error {
	program := tea.NewProgram(newModel(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tasksLoadedMsg struct {
	tasks []*domain.Task
	err   error
}

type taskAddedMsg struct {
	task *domain.Task
	err  error
}

type taskUpdatedMsg struct {
	task *domain.Task
	err  error
}

type taskDeletedMsg struct {
	id  uuid.UUID
	err error
}

type model struct {
	ctx    context.Context
	api    TaskAPI
	home   *Home
	cursor int

	adding bool
	input  string
}

func newModel(ctx context.Context, api TaskAPI) *model {
	return &model{
		ctx:  ctx,
		api:  api,
		home: NewHome(),
	}
}

func (m *model) Init() tea.Cmd {
	return m.load()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m, m.updateInput(msg)
		}
		return m, m.updateList(msg)

	case tasksLoadedMsg:
		m.home.FinishLoad(msg.tasks, msg.err)
	case taskAddedMsg:
		m.home.ApplyAdd(msg.task, msg.err)
	case taskUpdatedMsg:
		m.home.ApplyStatus(msg.task, msg.err)
	case taskDeletedMsg:
		m.home.ApplyDelete(msg.id, msg.err)
	}

	m.clampCursor()
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "a":
		m.adding = true
		m.input = ""
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.home.Visible())-1 {
			m.cursor++
		}
	case " ":
		if task := m.selected(); task != nil {
			return m.setCompleted(task.ID, !task.Completed)
		}
	case "d":
		if task := m.selected(); task != nil {
			return m.remove(task.ID)
		}
	case "1":
		m.setFilter(FilterAll)
	case "2":
		m.setFilter(FilterCompleted)
	case "3":
		m.setFilter(FilterPending)
	case "r":
		if m.home.Err() != "" && !m.home.Loading() {
			return m.load()
		}
	}
	return nil
}

func (m *model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = ""
	case tea.KeyEnter:
		title := m.input
		if err := m.home.CheckTitle(title); err != nil {
			return nil
		}
		m.adding = false
		m.input = ""
		return m.add(title)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

func (m *model) setFilter(f Filter) {
	m.home.SetFilter(f)
	m.cursor = 0
}

func (m *model) selected() *domain.Task {
	visible := m.home.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

func (m *model) clampCursor() {
	if n := len(m.home.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) load() tea.Cmd {
	m.home.BeginLoad()
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		tasks, err := api.ListTasks(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m *model) add(title string) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		task, err := api.CreateTask(ctx, title)
		return taskAddedMsg{task: task, err: err}
	}
}

func (m *model) setCompleted(id uuid.UUID, completed bool) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		task, err := api.UpdateTaskStatus(ctx, id, completed)
		return taskUpdatedMsg{task: task, err: err}
	}
}

func (m *model) remove(id uuid.UUID) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: api.DeleteTask(ctx, id)}
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString("Tasks\n\n")
	writeFilters(&b, m.home.Filter())

	if msg := m.home.Err(); msg != "" {
		fmt.Fprintf(&b, "Error: %s (r to retry)\n\n", msg)
	}

	if m.adding {
		fmt.Fprintf(&b, "New task: %s_\n\n", m.input)
	}

	switch visible := m.home.Visible(); {
	case m.home.Loading():
		b.WriteString("Loading tasks...\n")
	case len(visible) == 0:
		b.WriteString("No tasks found\n")
	default:
		for i, task := range visible {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			check := " "
			if task.Completed {
				check = "x"
			}
			fmt.Fprintf(&b, "%s[%s] %s\n", cursor, check, task.Title)
		}
	}

	b.WriteString("\n")
	if m.adding {
		b.WriteString("enter: save  esc: cancel\n")
	} else {
		b.WriteString("a: add  space: toggle  d: delete  1/2/3: filter  r: retry  q: quit\n")
	}
	return b.String()
}

func writeFilters(b *strings.Builder, active Filter) {
	labels := []struct {
		key    string
		filter Filter
	}{
		{"1", FilterAll},
		{"2", FilterCompleted},
		{"3", FilterPending},
	}
	for i, l := range labels {
		if i > 0 {
			b.WriteString("  ")
		}
		name := l.filter.String()
		if l.filter == active {
			name = "*" + name + "*"
		}
		fmt.Fprintf(b, "[%s] %s", l.key, name)
	}
	b.WriteString("\n\n")
}
