package service

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/globalstate/internal/database"
	"github.com/jask/globalstate/internal/database/repository"
	"github.com/jask/globalstate/internal/global"
	"github.com/jask/globalstate/internal/slice"
	"github.com/jask/globalstate/internal/store"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newPersister(t *testing.T, db *sql.DB, logs *bytes.Buffer) *Persister[global.State] {
	t.Helper()
	p := &Persister[global.State]{
		Snapshots: repository.NewSnapshotRepo(db),
		Journal:   repository.NewJournalRepo(db),
		Slice:     global.Slice,
	}
	if logs != nil {
		p.Logger = log.New(logs, "", 0)
	}
	return p
}

func TestRehydrateWithoutSnapshot(t *testing.T) {
	t.Parallel()
	p := newPersister(t, openDB(t), nil)

	state, ok, err := p.Rehydrate(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, global.InitialState, state)
}

func TestSaveThenRehydrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newPersister(t, openDB(t), nil)

	want := global.State{Theme: global.ThemeDark, Busy: true, Notice: "hello"}
	require.NoError(t, p.Save(ctx, want))

	got, ok, err := p.Rehydrate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	require.NoError(t, p.Forget(ctx))
	_, ok, err = p.Rehydrate(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRehydrateKeepsDefaultsForMissingFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	p := newPersister(t, db, nil)
	require.NoError(t, p.Snapshots.Upsert(ctx, repository.Snapshot{
		Slice: global.Name, StateJSON: []byte(`{"theme":"dark"}`), UpdatedAt: database.Now(),
	}))

	got, ok, err := p.Rehydrate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, global.ThemeDark, got.Theme)
	require.True(t, got.SidebarOpen)
}

func TestRehydrateCorruptSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newPersister(t, openDB(t), nil)
	require.NoError(t, p.Snapshots.Upsert(ctx, repository.Snapshot{
		Slice: global.Name, StateJSON: []byte(`{not json`), UpdatedAt: database.Now(),
	}))

	state, ok, err := p.Rehydrate(ctx)
	require.Error(t, err)
	require.False(t, ok)
	require.Equal(t, global.InitialState, state)
}

func TestStoreWiringJournalsAndSnapshots(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var logs bytes.Buffer
	p := newPersister(t, openDB(t), &logs)

	st, err := store.New(global.Slice.Reducer(), store.WithMiddleware(p.Middleware()))
	require.NoError(t, err)
	st.Subscribe(p.Subscriber(ctx))

	require.NoError(t, st.Dispatch(ctx, global.SetTheme(global.ThemeDark)))
	require.NoError(t, st.Dispatch(ctx, global.ToggleSidebar()))
	require.NoError(t, st.Dispatch(ctx, slice.Action{Type: "unrelated/action"}))
	require.ErrorIs(t, st.Dispatch(ctx, global.SetTheme("sepia")), global.ErrUnknownTheme)
	require.Empty(t, logs.String())

	n, err := p.Journal.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	entries, err := p.Journal.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, "global/toggleSidebar", entries[0].ActionType)
	require.Nil(t, entries[0].PayloadJSON)
	require.Equal(t, "global/setTheme", entries[1].ActionType)
	require.NotNil(t, entries[1].PayloadJSON)
	require.Equal(t, `"dark"`, *entries[1].PayloadJSON)
	require.NotEmpty(t, entries[1].ID)

	saved, ok, err := p.Rehydrate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st.State(), saved)

	replayed, err := p.Replay(ctx)
	require.NoError(t, err)
	require.Equal(t, st.State(), replayed)
}

func TestReplayStartsFromLatestHydrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newPersister(t, openDB(t), nil)

	_, err := p.Record(ctx, global.ShowNotice("before"))
	require.NoError(t, err)
	seeded := global.State{Theme: global.ThemeDark}
	require.NoError(t, p.Hydrate(ctx, seeded))
	_, err = p.Record(ctx, global.ToggleSidebar())
	require.NoError(t, err)

	saved, ok, err := p.Rehydrate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, seeded, saved)

	replayed, err := p.Replay(ctx)
	require.NoError(t, err)
	require.Equal(t, global.State{Theme: global.ThemeDark, SidebarOpen: true}, replayed)

	entries, err := p.Journal.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, store.HydrateType, entries[1].ActionType)
}

func TestReplayStopsOnBadEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newPersister(t, openDB(t), nil)

	_, err := p.Record(ctx, global.ShowNotice("hi"))
	require.NoError(t, err)
	_, err = p.Record(ctx, global.Slice.Actions()[global.KeySetBusy].New("nope"))
	require.NoError(t, err)

	state, err := p.Replay(ctx)
	require.ErrorIs(t, err, slice.ErrPayloadType)
	require.Equal(t, "hi", state.Notice)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	p := newPersister(t, db, nil)
	require.NoError(t, p.Save(ctx, global.InitialState))
	_, err := p.Record(ctx, global.Reset())
	require.NoError(t, err)

	var logs bytes.Buffer
	m := &MaintenanceService{DB: db, Logger: log.New(&logs, "", 0)}
	require.NoError(t, m.Reset(ctx))
	require.Empty(t, logs.String())

	n, err := p.Journal.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	_, ok, err := p.Rehydrate(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
