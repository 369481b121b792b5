package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/phrazzld/task-manager/internal/platform/postgres"
	"github.com/phrazzld/task-manager/internal/store"
	"github.com/phrazzld/task-manager/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueSession(t *testing.T) string {
	t.Helper()
	return "test_" + uuid.NewString()
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	s := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		task, err := domain.NewTask(uniqueSession(t), "Buy milk")
		require.NoError(t, err)

		require.NoError(t, s.Create(ctx, task))
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.False(t, task.CreatedAt.IsZero())
		assert.False(t, task.Completed)

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, task.SessionID, got.SessionID)
	})

	t.Run("list is session scoped and newest first", func(t *testing.T) {
		sessionA, sessionB := uniqueSession(t), uniqueSession(t)

		var created []*domain.Task
		for i := 0; i < 3; i++ {
			task, err := domain.NewTask(sessionA, fmt.Sprintf("task %d", i))
			require.NoError(t, err)
			require.NoError(t, s.Create(ctx, task))
			created = append(created, task)
		}

		listA, err := s.ListBySession(ctx, sessionA)
		require.NoError(t, err)
		require.Len(t, listA, 3)
		assert.Equal(t, created[2].ID, listA[0].ID)
		assert.Equal(t, created[0].ID, listA[2].ID)

		listB, err := s.ListBySession(ctx, sessionB)
		require.NoError(t, err)
		assert.Empty(t, listB)
	})

	t.Run("equal timestamps keep insertion order newest first", func(t *testing.T) {
		session := uniqueSession(t)
		var ids []uuid.UUID
		err := s.RunInTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
			// now() is fixed for the transaction, so all rows share created_at.
			for i := 0; i < 3; i++ {
				task, err := domain.NewTask(session, fmt.Sprintf("same instant %d", i))
				if err != nil {
					return err
				}
				if err := tasks.Create(ctx, task); err != nil {
					return err
				}
				ids = append(ids, task.ID)
			}
			return nil
		})
		require.NoError(t, err)

		list, err := s.ListBySession(ctx, session)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("update and delete", func(t *testing.T) {
		task, err := domain.NewTask(uniqueSession(t), "Walk dog")
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, task))

		updated, err := s.UpdateCompleted(ctx, task.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

		require.NoError(t, s.Delete(ctx, task.ID))
		_, err = s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, s.Delete(ctx, task.ID), store.ErrTaskNotFound)

		_, err = s.UpdateCompleted(ctx, uuid.New(), true)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("tx scoped store rolls back", func(t *testing.T) {
		session := uniqueSession(t)
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			task, err := domain.NewTask(session, "discarded")
			require.NoError(t, err)
			require.NoError(t, s.WithTx(tx).Create(ctx, task))

			inTx, err := s.WithTx(tx).ListBySession(ctx, session)
			require.NoError(t, err)
			assert.Len(t, inTx, 1)
		})

		list, err := s.ListBySession(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
