package repository

import (
	"context"
	"database/sql"
)

// JournalRepo handles the dispatched-action journal.
type JournalRepo struct {
	db *sql.DB
}

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{db: db} }

// Append stores e and assigns the next sequence number, which is returned.
func (r *JournalRepo) Append(ctx context.Context, e JournalEntry) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO journal(id, seq, action_type, payload_json, dispatched_at)
	VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM journal), ?, ?, ?)
	RETURNING seq;
	`, e.ID, e.ActionType, e.PayloadJSON, e.DispatchedAt).Scan(&seq)
	return seq, err
}

// Recent returns up to limit entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, seq, action_type, payload_json, dispatched_at
	FROM journal ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// All returns every entry, oldest first.
func (r *JournalRepo) All(ctx context.Context) ([]JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, seq, action_type, payload_json, dispatched_at
	FROM journal ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *JournalRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal`).Scan(&n)
	return n, err
}

// Truncate removes every entry.
func (r *JournalRepo) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM journal`)
	return err
}

func scanEntries(rows *sql.Rows) ([]JournalEntry, error) {
	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Seq, &e.ActionType, &e.PayloadJSON, &e.DispatchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
