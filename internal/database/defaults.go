package database

import (
	"context"
	"database/sql"
	"sort"

	"github.com/jask/globalstate/internal/database/repository"
)

// SeedDefaults stores an initial snapshot for every slice that has none yet
// and returns the names it seeded, sorted. Existing snapshots are never
// overwritten, so it runs on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB, defaults map[string][]byte) ([]string, error) {
	repo := repository.NewSnapshotRepo(db)
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	var seeded []string
	for _, name := range names {
		existing, err := repo.Get(ctx, name)
		if err != nil {
			return seeded, err
		}
		if existing != nil {
			continue
		}
		snap := repository.Snapshot{Slice: name, StateJSON: defaults[name], UpdatedAt: Now()}
		if err := repo.Upsert(ctx, snap); err != nil {
			return seeded, err
		}
		seeded = append(seeded, name)
	}
	return seeded, nil
}
