package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/phrazzld/task-manager/internal/store"
)

type record struct {
	task domain.Task
	seq  uint64
}

// TaskStore implements store.TaskStore and store.TaskTransactor on a map
// guarded by a single mutex. A transaction holds the mutex for its whole
// duration and restores a snapshot when it fails.
type TaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]record
	nextSeq uint64
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		records: make(map[uuid.UUID]record),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "memory_task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ store.TaskStore      = (*TaskStore)(nil)
	_ store.TaskTransactor = (*TaskStore)(nil)
)

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(ctx, task)
}

// ListBySession implements store.TaskStore.
func (s *TaskStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listBySession(ctx, sessionID)
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getByID(ctx, id)
}

// UpdateCompleted implements store.TaskStore.
func (s *TaskStore) UpdateCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCompleted(ctx, id, completed)
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delete(ctx, id)
}

// RunInTx implements store.TaskTransactor. Other callers block until fn
// returns. Changes made by fn are discarded if it returns an error or panics.
func (s *TaskStore) RunInTx(ctx context.Context, fn store.TaskTxFn) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[uuid.UUID]record, len(s.records))
	for id, r := range s.records {
		snapshot[id] = r
	}
	nextSeq := s.nextSeq

	rollback := func() {
		s.records = snapshot
		s.nextSeq = nextSeq
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			s.logger.Error("panic in memory transaction, rolled back", slog.Any("panic", p))
			panic(p)
		}
	}()

	if err := fn(ctx, lockedStore{s}); err != nil {
		rollback()
		s.logger.Debug("memory transaction rolled back", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// lockedStore exposes the store to a transaction that already holds s.mu.
type lockedStore struct {
	s *TaskStore
}

func (l lockedStore) Create(ctx context.Context, task *domain.Task) error {
	return l.s.create(ctx, task)
}

func (l lockedStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.Task, error) {
	return l.s.listBySession(ctx, sessionID)
}

func (l lockedStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return l.s.getByID(ctx, id)
}

func (l lockedStore) UpdateCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*domain.Task, error) {
	return l.s.updateCompleted(ctx, id, completed)
}

func (l lockedStore) Delete(ctx context.Context, id uuid.UUID) error {
	return l.s.delete(ctx, id)
}

func (s *TaskStore) create(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return err
	}

	now := s.now().UTC()
	task.ID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	s.nextSeq++
	s.records[task.ID] = record{task: *task, seq: s.nextSeq}

	s.logger.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.Uint64("seq", s.nextSeq))
	return nil
}

func (s *TaskStore) listBySession(ctx context.Context, sessionID string) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]record, 0)
	for _, r := range s.records {
		if r.task.SessionID == sessionID {
			matched = append(matched, r)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]*domain.Task, 0, len(matched))
	for _, r := range matched {
		task := r.task
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (s *TaskStore) getByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, ok := s.records[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	task := r.task
	return &task, nil
}

func (s *TaskStore) updateCompleted(
	ctx context.Context,
	id uuid.UUID,
	completed bool,
) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, ok := s.records[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	r.task.SetCompleted(completed, s.now())
	s.records[id] = r

	task := r.task
	return &task, nil
}

func (s *TaskStore) delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := s.records[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.records, id)
	return nil
}
