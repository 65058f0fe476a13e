// Package store holds application state and applies actions to it through a
// slice reducer. A Store is built once at startup and passed to whatever
// needs to read state or dispatch; there is no package-level instance.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/jask/globalstate/internal/slice"
)

// InitType is the action type used to compute the starting state. No slice
// handles it, so reducers fall back to their initial state.
const InitType = "@@store/init"

// HydrateType marks a wholesale replacement of the state from outside the
// reducer, such as first-run defaults or an import. Its payload is the new
// state.
const HydrateType = "@@store/hydrate"

// ErrReducerRequired indicates New was called without a reducer.
var ErrReducerRequired = errors.New("store reducer is required")

// DispatchFunc applies an action.
type DispatchFunc func(ctx context.Context, a slice.Action) error

// Middleware wraps the dispatch chain. getState reads the current state
// and may be called before and after next.
type Middleware[S any] func(getState func() S, next DispatchFunc) DispatchFunc

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithPreloadedState starts the store from s instead of the reducer's
// initial state.
func WithPreloadedState[S any](s S) Option[S] {
	return func(st *Store[S]) {
		st.state = s
		st.preloaded = true
	}
}

// WithMiddleware appends middleware. The first one given is outermost.
func WithMiddleware[S any](mw ...Middleware[S]) Option[S] {
	return func(st *Store[S]) { st.middleware = append(st.middleware, mw...) }
}

// WithLogger sets the logger used to report subscriber panics. A nil
// logger discards output.
func WithLogger[S any](l *log.Logger) Option[S] {
	return func(st *Store[S]) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		st.logger = l
	}
}

type subscriber[S any] struct {
	id int
	fn func(S)
}

// Store holds the current state. Dispatch is serialised; State may be
// called from any goroutine.
type Store[S any] struct {
	// dispatchMu covers a reduce and the notification of its result, so
	// subscribers see states in the order they were produced.
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	reducer   slice.Reducer[S]
	state     S
	preloaded bool
	logger    *log.Logger

	middleware []Middleware[S]
	dispatch   DispatchFunc

	subMu  sync.Mutex
	subs   []subscriber[S]
	nextID int
}

// New builds a store around reducer.
func New[S any](reducer slice.Reducer[S], opts ...Option[S]) (*Store[S], error) {
	if reducer == nil {
		return nil, ErrReducerRequired
	}
	st := &Store[S]{
		reducer: reducer,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(st)
		}
	}
	if !st.preloaded {
		start, err := reducer(nil, slice.Action{Type: InitType})
		if err != nil {
			return nil, fmt.Errorf("init state: %w", err)
		}
		st.state = start
	}

	var d DispatchFunc = st.reduce
	for i := len(st.middleware) - 1; i >= 0; i-- {
		if st.middleware[i] == nil {
			continue
		}
		d = st.middleware[i](st.State, d)
	}
	st.dispatch = d
	return st, nil
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch runs a through the middleware chain and the reducer. A reducer
// error leaves the state unchanged and is returned to the caller.
func (s *Store[S]) Dispatch(ctx context.Context, a slice.Action) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.dispatch(ctx, a)
}

func (s *Store[S]) reduce(ctx context.Context, a slice.Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := s.apply(a)
	if err != nil {
		return err
	}
	s.notify(next)
	return nil
}

func (s *Store[S]) apply(a slice.Action) (S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.state
	next, err := s.reducer(&cur, a)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// Subscribe registers fn to be called with the new state after every
// successful dispatch. Calls happen in dispatch order, one at a time, and
// the next dispatch waits for them, so fn must not call Dispatch itself.
// The returned func removes the subscription.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[S]{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store[S]) notify(state S) {
	s.subMu.Lock()
	subs := make([]subscriber[S], len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		s.callSubscriber(sub, state)
	}
}

func (s *Store[S]) callSubscriber(sub subscriber[S], state S) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("store: subscriber %d panicked: %v", sub.id, r)
		}
	}()
	sub.fn(state)
}
