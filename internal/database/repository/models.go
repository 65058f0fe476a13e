package repository

import "time"

// Snapshot is the persisted state of one slice.
type Snapshot struct {
	Slice     string
	StateJSON []byte
	UpdatedAt time.Time
}

// JournalEntry records one successfully dispatched action.
type JournalEntry struct {
	ID           string
	Seq          int64
	ActionType   string
	PayloadJSON  *string
	DispatchedAt time.Time
}
