package queue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/queue"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/testing/testdb"
)

func TestQueueRepository_Shared(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.RunMigrations(t, (*queue.Entry)(nil), (*queue.History)(nil))
	pg.ApplyIndexes(t, queue.OneActiveEntryPerUserIndex)

	repo := queue.NewRepository(pg.DB, nil)
	ctx := context.Background()

	t.Run("Enqueue_AssignsPositions", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		first := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, first, 15))
		assert.Equal(t, 1, first.PositionNumber)
		assert.Equal(t, queue.StatusWaiting, first.Status)
		assert.Equal(t, 15, first.EstimatedTime)

		second := &queue.Entry{UserID: 2, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, second, 15))
		assert.Equal(t, 2, second.PositionNumber)
		assert.Equal(t, 30, second.EstimatedTime)
	})

	t.Run("Enqueue_DuplicateActiveRejectedByIndex", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		require.NoError(t, repo.Enqueue(ctx, &queue.Entry{UserID: 1, ServiceID: 10}, 15))

		// Same user, different service: still one active entry per user.
		err := repo.Enqueue(ctx, &queue.Entry{UserID: 1, ServiceID: 20}, 15)
		assert.ErrorIs(t, err, queue.ErrDuplicateActiveEntry)
	})

	t.Run("Enqueue_AllowedAfterTerminal", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		e := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, e, 15))

		e.Status = queue.StatusCancelled
		require.NoError(t, repo.Transition(ctx, e, nil))

		again := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, again, 15))
		assert.NotEqual(t, e.ID, again.ID)
	})

	t.Run("NextWaiting_PriorityThenPosition", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		require.NoError(t, repo.Enqueue(ctx, &queue.Entry{UserID: 1, ServiceID: 10}, 15))
		urgent := &queue.Entry{UserID: 2, ServiceID: 10, Priority: 5}
		require.NoError(t, repo.Enqueue(ctx, urgent, 15))

		next, err := repo.NextWaiting(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, urgent.ID, next.ID)
	})

	t.Run("NextWaiting_Empty", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		_, err := repo.NextWaiting(ctx, 10)
		assert.ErrorIs(t, err, queue.ErrEntryNotFound)
	})

	t.Run("CountWaitingAhead_IgnoresDepartedEntries", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		first := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, first, 15))
		second := &queue.Entry{UserID: 2, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, second, 15))

		ahead, err := repo.CountWaitingAhead(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, 1, ahead)

		first.Status = queue.StatusNoShow
		require.NoError(t, repo.Transition(ctx, first, nil))

		ahead, err = repo.CountWaitingAhead(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, 0, ahead)
	})

	t.Run("Transition_WritesHistoryAtomically", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		e := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, e, 15))

		wait := 12
		e.Status = queue.StatusCompleted
		hist := &queue.History{
			UserID:      e.UserID,
			ServiceID:   e.ServiceID,
			ServiceName: "Registrar",
			UserName:    "Alice Banda",
			UserCode:    "20C1001",
			WaitTime:    &wait,
			Status:      string(queue.StatusCompleted),
			CreatedAt:   e.CreatedAt,
			CompletedAt: e.CreatedAt,
		}
		require.NoError(t, repo.Transition(ctx, e, hist))

		stored, err := repo.GetByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, queue.StatusCompleted, stored.Status)

		history, err := repo.ListHistory(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Registrar", history[0].ServiceName)
		assert.Equal(t, "20C1001", history[0].UserCode)
	})

	t.Run("Transition_UnknownEntry", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		ghost := &queue.Entry{ID: 404, UserID: 1, ServiceID: 10, Status: queue.StatusCancelled}
		err := repo.Transition(ctx, ghost, nil)
		assert.ErrorIs(t, err, queue.ErrEntryNotFound)
	})

	t.Run("ActiveByUser", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		_, err := repo.ActiveByUser(ctx, 1)
		assert.ErrorIs(t, err, queue.ErrEntryNotFound)

		e := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, e, 15))

		active, err := repo.ActiveByUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, e.ID, active.ID)
	})

	t.Run("ListByService_OrderAndFilter", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "queue_entries", "queue_history")

		low := &queue.Entry{UserID: 1, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, low, 15))
		high := &queue.Entry{UserID: 2, ServiceID: 10, Priority: 3}
		require.NoError(t, repo.Enqueue(ctx, high, 15))
		gone := &queue.Entry{UserID: 3, ServiceID: 10}
		require.NoError(t, repo.Enqueue(ctx, gone, 15))
		gone.Status = queue.StatusCancelled
		require.NoError(t, repo.Transition(ctx, gone, nil))

		active, err := repo.ListByService(ctx, 10, true)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, high.ID, active[0].ID)
		assert.Equal(t, low.ID, active[1].ID)

		all, err := repo.ListByService(ctx, 10, false)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
