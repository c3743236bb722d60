package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/testing/testdb"
)

func TestServiceRepository_Shared(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.RunMigrations(t, (*catalog.Service)(nil))

	repo := catalog.NewRepository(pg.DB, nil)
	ctx := context.Background()

	t.Run("UpsertByName_Idempotent", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "services")

		first := &catalog.Service{Name: "Registrar", Description: "Records", EstimatedTime: 15, IsActive: true}
		require.NoError(t, repo.UpsertByName(ctx, first))

		// Second upsert with the same name refreshes instead of duplicating.
		second := &catalog.Service{Name: "Registrar", Description: "Enrollment and records", EstimatedTime: 20, IsActive: true}
		require.NoError(t, repo.UpsertByName(ctx, second))

		all, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Enrollment and records", all[0].Description)
		assert.Equal(t, 20, all[0].EstimatedTime)
	})

	t.Run("GetAll_ActiveOnly", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "services")

		require.NoError(t, repo.UpsertByName(ctx, &catalog.Service{Name: "Cashier", EstimatedTime: 10, IsActive: true}))
		require.NoError(t, repo.UpsertByName(ctx, &catalog.Service{Name: "Old Desk", EstimatedTime: 10, IsActive: false}))

		active, err := repo.GetAll(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "Cashier", active[0].Name)

		all, err := repo.GetAll(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("SetActive", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "services")

		s := &catalog.Service{Name: "Library", EstimatedTime: 5, IsActive: true}
		created, err := repo.Create(ctx, s)
		require.NoError(t, err)

		require.NoError(t, repo.SetActive(ctx, created.ID, false))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		assert.ErrorIs(t, repo.SetActive(ctx, 9999, false), catalog.ErrServiceNotFound)
	})

	t.Run("GetByName_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "services")

		_, err := repo.GetByName(ctx, "Nope")
		assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
	})
}
