package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SnapshotRepo handles slice snapshots.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func (r *SnapshotRepo) Upsert(ctx context.Context, s Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO snapshots(slice, state_json, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(slice) DO UPDATE SET
	 state_json=excluded.state_json,
	 updated_at=excluded.updated_at;
	`, s.Slice, string(s.StateJSON), s.UpdatedAt)
	return err
}

// Get returns nil when no snapshot exists for the slice.
func (r *SnapshotRepo) Get(ctx context.Context, slice string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT slice, state_json, updated_at FROM snapshots WHERE slice = ?`, slice)
	var (
		s     Snapshot
		state string
	)
	if err := row.Scan(&s.Slice, &state, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.StateJSON = []byte(state)
	return &s, nil
}

func (r *SnapshotRepo) Delete(ctx context.Context, slice string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slice = ?`, slice)
	return err
}
