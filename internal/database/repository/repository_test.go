package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/globalstate/internal/database"
	"github.com/jask/globalstate/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	// second run is a no-op
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshotUpsertAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewSnapshotRepo(openTestDB(t))

	got, err := repo.Get(ctx, "global")
	require.NoError(t, err)
	require.Nil(t, got)

	now := database.Now()
	require.NoError(t, repo.Upsert(ctx, repository.Snapshot{Slice: "global", StateJSON: []byte(`{"theme":"light"}`), UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, repository.Snapshot{Slice: "global", StateJSON: []byte(`{"theme":"dark"}`), UpdatedAt: now.Add(time.Second)}))

	got, err = repo.Get(ctx, "global")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "global", got.Slice)
	require.JSONEq(t, `{"theme":"dark"}`, string(got.StateJSON))
	require.True(t, got.UpdatedAt.Equal(now.Add(time.Second)), "updated_at %s", got.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, "global"))
	got, err = repo.Get(ctx, "global")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestJournalAppendAndRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewJournalRepo(openTestDB(t))

	payload := `"dark"`
	types := []string{"global/setTheme", "global/toggleSidebar", "global/reset"}
	for i, typ := range types {
		e := repository.JournalEntry{ID: uuid.NewString(), ActionType: typ, DispatchedAt: database.Now()}
		if i == 0 {
			e.PayloadJSON = &payload
		}
		seq, err := repo.Append(ctx, e)
		require.NoError(t, err)
		require.Equal(t, int64(i+1), seq)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "global/reset", recent[0].ActionType)
	require.Equal(t, int64(3), recent[0].Seq)
	require.Nil(t, recent[0].PayloadJSON)
	require.Equal(t, "global/toggleSidebar", recent[1].ActionType)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[2].PayloadJSON)
	require.Equal(t, payload, *all[2].PayloadJSON)

	ordered, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	for i, e := range ordered {
		require.Equal(t, types[i], e.ActionType)
	}

	require.NoError(t, repo.Truncate(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
