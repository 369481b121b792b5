package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/phrazzld/task-manager/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{"id", "title", "completed", "session_id", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresTaskStore(db, nil), mock
}

func TestNewPostgresTaskStore_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })
}

func TestPostgresTaskStore_Create(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	id := uuid.New()
	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tasks (title, completed, session_id)`)).
		WithArgs("Buy milk", false, "s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	task, err := domain.NewTask("s1", "Buy milk")
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, task))
	assert.Equal(t, id, task.ID)
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_Create_InvalidTaskSkipsQuery(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.Create(context.Background(), &domain.Task{Title: "  ", SessionID: "s1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_Create_CheckViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tasks`)).
		WillReturnError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_title_check"})

	err := s.Create(context.Background(), &domain.Task{Title: "x", SessionID: "s1"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresTaskStore_ListBySession(t *testing.T) {
	s, mock := newMockStore(t)

	newer := time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`ORDER BY created_at DESC, seq DESC`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(id1.String(), "newer", false, "s1", newer, newer).
			AddRow(id2.String(), "older", true, "s1", older, older))

	tasks, err := s.ListBySession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, id1, tasks[0].ID)
	assert.Equal(t, "older", tasks[1].Title)
	assert.True(t, tasks[1].Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_ListBySession_Empty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM tasks`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, err := s.ListBySession(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestPostgresTaskStore_ListBySession_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`FROM tasks`).WillReturnError(dbErr)

	_, err := s.ListBySession(context.Background(), "s1")
	assert.ErrorIs(t, err, dbErr)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list", storeErr.Operation)
}

func TestPostgresTaskStore_GetByID(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`WHERE id = \$1\s*$`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(id.String(), "t", false, "s1", now, now))

		task, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, task.ID)
		assert.Equal(t, "s1", task.SessionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`FROM tasks`).WithArgs(id).WillReturnError(sql.ErrNoRows)

		task, err := s.GetByID(context.Background(), id)
		assert.Nil(t, task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_RunInTx_LocksRow(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(id.String(), "t", false, "s1", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tasks`)).
		WithArgs(true, id).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(id.String(), "t", true, "s1", now, now))
	mock.ExpectCommit()

	var updated *domain.Task
	err := s.RunInTx(context.Background(), func(ctx context.Context, tasks store.TaskStore) error {
		if _, err := tasks.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		updated, err = tasks.UpdateCompleted(ctx, id, true)
		return err
	})

	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_RunInTx_RollbackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(id).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tasks store.TaskStore) error {
		_, err := tasks.GetByID(ctx, id)
		return err
	})

	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskStore_UpdateCompleted_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE tasks`)).
		WithArgs(false, id).
		WillReturnError(sql.ErrNoRows)

	task, err := s.UpdateCompleted(context.Background(), id, false)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM tasks`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrTaskNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		s, mock := newMockStore(t)
		dbErr := errors.New("broken pipe")
		mock.ExpectExec(`DELETE FROM tasks`).WithArgs(id).WillReturnError(dbErr)

		err := s.Delete(context.Background(), id)
		assert.ErrorIs(t, err, dbErr)
		assert.False(t, store.IsNotFoundError(err))
	})
}
