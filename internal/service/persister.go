package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/jask/globalstate/internal/database"
	"github.com/jask/globalstate/internal/database/repository"
	"github.com/jask/globalstate/internal/slice"
	"github.com/jask/globalstate/internal/store"
)

// Persister saves one slice's state between runs and journals the actions
// applied to it.
type Persister[S any] struct {
	Snapshots *repository.SnapshotRepo
	Journal   *repository.JournalRepo
	Slice     *slice.Slice[S]
	Logger    *log.Logger
}

func (p *Persister[S]) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return p.Logger
}

// Rehydrate loads the saved state. ok is false when nothing was saved, in
// which case the slice's initial state is returned.
func (p *Persister[S]) Rehydrate(ctx context.Context) (state S, ok bool, err error) {
	state = p.Slice.InitialState()
	snap, err := p.Snapshots.Get(ctx, p.Slice.Name())
	if err != nil {
		return state, false, fmt.Errorf("load snapshot %s: %w", p.Slice.Name(), err)
	}
	if snap == nil {
		return state, false, nil
	}
	if err := json.Unmarshal(snap.StateJSON, &state); err != nil {
		return p.Slice.InitialState(), false, fmt.Errorf("decode snapshot %s: %w", p.Slice.Name(), err)
	}
	return state, true, nil
}

// Save stores state as the slice's snapshot.
func (p *Persister[S]) Save(ctx context.Context, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", p.Slice.Name(), err)
	}
	snap := repository.Snapshot{Slice: p.Slice.Name(), StateJSON: data, UpdatedAt: database.Now()}
	if err := p.Snapshots.Upsert(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot %s: %w", p.Slice.Name(), err)
	}
	return nil
}

// Hydrate replaces the saved state with state and journals the
// replacement, so a later Replay starts from it.
func (p *Persister[S]) Hydrate(ctx context.Context, state S) error {
	if err := p.Save(ctx, state); err != nil {
		return err
	}
	return p.MarkHydrated(ctx, state)
}

// MarkHydrated journals that the saved state was set to state without
// going through the reducer.
func (p *Persister[S]) MarkHydrated(ctx context.Context, state S) error {
	if _, err := p.Record(ctx, slice.Action{Type: store.HydrateType, Payload: state}); err != nil {
		return fmt.Errorf("journal %s: %w", store.HydrateType, err)
	}
	return nil
}

// Forget deletes the saved snapshot.
func (p *Persister[S]) Forget(ctx context.Context) error {
	return p.Snapshots.Delete(ctx, p.Slice.Name())
}

// Subscriber returns a store subscriber that saves every new state. Save
// failures are logged, not returned, since subscribers cannot fail a
// dispatch.
func (p *Persister[S]) Subscriber(ctx context.Context) func(S) {
	return func(state S) {
		if err := p.Save(ctx, state); err != nil {
			p.logger().Printf("persist: %v", err)
		}
	}
}

// Middleware journals every action the slice handles once the reducer has
// accepted it. Actions rejected by the reducer are not journalled.
func (p *Persister[S]) Middleware() store.Middleware[S] {
	return func(_ func() S, next store.DispatchFunc) store.DispatchFunc {
		return func(ctx context.Context, a slice.Action) error {
			if err := next(ctx, a); err != nil {
				return err
			}
			if !p.Slice.Has(a.Type) {
				return nil
			}
			if _, err := p.Record(ctx, a); err != nil {
				p.logger().Printf("journal %s: %v", a.Type, err)
			}
			return nil
		}
	}
}

// Record appends a to the journal and returns the stored entry.
func (p *Persister[S]) Record(ctx context.Context, a slice.Action) (repository.JournalEntry, error) {
	e := repository.JournalEntry{
		ID:           uuid.NewString(),
		ActionType:   a.Type,
		DispatchedAt: database.Now(),
	}
	if a.Payload != nil {
		data, err := json.Marshal(a.Payload)
		if err != nil {
			return e, fmt.Errorf("encode payload: %w", err)
		}
		payload := string(data)
		e.PayloadJSON = &payload
	}
	seq, err := p.Journal.Append(ctx, e)
	if err != nil {
		return e, err
	}
	e.Seq = seq
	return e, nil
}

// Replay rebuilds state by applying every journalled action, oldest first,
// to the slice's initial state. A hydrate entry replaces the state with its
// payload. Other payloads come back as their JSON-decoded forms (string,
// bool, float64, map, slice).
func (p *Persister[S]) Replay(ctx context.Context) (S, error) {
	state := p.Slice.InitialState()
	entries, err := p.Journal.All(ctx)
	if err != nil {
		return state, fmt.Errorf("load journal: %w", err)
	}
	for _, e := range entries {
		if e.ActionType == store.HydrateType {
			next := p.Slice.InitialState()
			if e.PayloadJSON != nil {
				if err := json.Unmarshal([]byte(*e.PayloadJSON), &next); err != nil {
					return state, fmt.Errorf("decode journal entry %d: %w", e.Seq, err)
				}
			}
			state = next
			continue
		}
		a := slice.Action{Type: e.ActionType}
		if e.PayloadJSON != nil {
			if err := json.Unmarshal([]byte(*e.PayloadJSON), &a.Payload); err != nil {
				return state, fmt.Errorf("decode journal entry %d: %w", e.Seq, err)
			}
		}
		state, err = p.Slice.Reduce(state, a)
		if err != nil {
			return state, fmt.Errorf("replay entry %d: %w", e.Seq, err)
		}
	}
	return state, nil
}
