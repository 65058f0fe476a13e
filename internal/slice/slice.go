// Package slice builds named state slices: an initial state plus a set of
// transition handlers, composed into a reducer and one action creator per
// handler.
//
// Action types are derived once at construction as "<name>/<handler>" and
// stored in a lookup table, so dispatch is a single map lookup. A Slice is
// immutable after New returns and is safe for concurrent use.
package slice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Separator joins the slice name and handler key in an action type.
const Separator = "/"

var (
	// ErrInvalidSlice wraps every construction failure.
	ErrInvalidSlice = errors.New("invalid slice")
	// ErrNameRequired indicates an empty slice name.
	ErrNameRequired = fmt.Errorf("%w: name is required", ErrInvalidSlice)
	// ErrNameInvalid indicates a slice name containing the type separator or
	// surrounding whitespace.
	ErrNameInvalid = fmt.Errorf("%w: name must not contain %q or surrounding spaces", ErrInvalidSlice, Separator)
	// ErrHandlersRequired indicates an empty handler set.
	ErrHandlersRequired = fmt.Errorf("%w: at least one handler is required", ErrInvalidSlice)
	// ErrHandlerNil indicates a handler key mapped to a nil function.
	ErrHandlerNil = fmt.Errorf("%w: handler is nil", ErrInvalidSlice)
	// ErrHandlerKeyInvalid indicates an empty handler key or one containing the separator.
	ErrHandlerKeyInvalid = fmt.Errorf("%w: handler key is invalid", ErrInvalidSlice)
	// ErrTypeConflict indicates two entries claiming the same action type.
	ErrTypeConflict = fmt.Errorf("%w: action type registered twice", ErrInvalidSlice)
)

// Handler computes the next state for one action type. It receives the
// current state by value and must not write through reference fields of it.
type Handler[S any] func(state S, a Action) (S, error)

// Pure adapts an infallible transition into a Handler.
func Pure[S any](fn func(state S, a Action) S) Handler[S] {
	if fn == nil {
		return nil
	}
	return func(state S, a Action) (S, error) { return fn(state, a), nil }
}

// Reducer computes the next state from the current state and an action.
// A nil state means there is no prior state and the slice's initial state
// is used.
type Reducer[S any] func(state *S, a Action) (S, error)

// Option configures optional slice behaviour.
type Option[S any] func(*options[S])

type options[S any] struct {
	prepare map[string]PrepareFunc
	extra   map[string]Handler[S]
}

// WithPrepare registers a prepare callback for the creator of key.
func WithPrepare[S any](key string, fn PrepareFunc) Option[S] {
	return func(o *options[S]) {
		if o.prepare == nil {
			o.prepare = make(map[string]PrepareFunc)
		}
		o.prepare[key] = fn
	}
}

// WithExtra makes the slice respond to an action type it does not own,
// typically one produced by another slice.
func WithExtra[S any](actionType string, h Handler[S]) Option[S] {
	return func(o *options[S]) {
		if o.extra == nil {
			o.extra = make(map[string]Handler[S])
		}
		o.extra[actionType] = h
	}
}

// Slice is a named bundle of initial state, handlers, the reducer built from
// them and the matching action creators.
type Slice[S any] struct {
	name     string
	initial  S
	handlers map[string]Handler[S] // action type -> handler, own and extra
	creators map[string]Creator    // handler key -> creator
}

// New composes a slice. It fails fast on a malformed name or handler set
// rather than deferring the failure to dispatch time.
func New[S any](name string, initial S, handlers map[string]Handler[S], opts ...Option[S]) (*Slice[S], error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(name) != name || strings.Contains(name, Separator) {
		return nil, fmt.Errorf("%w: %q", ErrNameInvalid, name)
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("%w: slice %q", ErrHandlersRequired, name)
	}

	var o options[S]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	s := &Slice[S]{
		name:     name,
		initial:  initial,
		handlers: make(map[string]Handler[S], len(handlers)+len(o.extra)),
		creators: make(map[string]Creator, len(handlers)),
	}
	for key, h := range handlers {
		if key == "" || strings.TrimSpace(key) != key || strings.Contains(key, Separator) {
			return nil, fmt.Errorf("%w: slice %q key %q", ErrHandlerKeyInvalid, name, key)
		}
		if h == nil {
			return nil, fmt.Errorf("%w: %s", ErrHandlerNil, TypeOf(name, key))
		}
		typ := TypeOf(name, key)
		s.handlers[typ] = h
		s.creators[key] = Creator{typ: typ}
	}
	for key, fn := range o.prepare {
		c, ok := s.creators[key]
		if !ok {
			return nil, fmt.Errorf("%w: prepare for unknown handler %q in slice %q", ErrInvalidSlice, key, name)
		}
		if fn == nil {
			return nil, fmt.Errorf("%w: prepare for %s is nil", ErrInvalidSlice, c.typ)
		}
		c.prepare = fn
		s.creators[key] = c
	}
	for typ, h := range o.extra {
		if strings.TrimSpace(typ) == "" {
			return nil, fmt.Errorf("%w: extra action type is empty in slice %q", ErrInvalidSlice, name)
		}
		if h == nil {
			return nil, fmt.Errorf("%w: extra %s", ErrHandlerNil, typ)
		}
		if _, exists := s.handlers[typ]; exists {
			return nil, fmt.Errorf("%w: %s", ErrTypeConflict, typ)
		}
		s.handlers[typ] = h
	}
	return s, nil
}

// Must is like New but panics on error. Use it for package-level slices
// whose definition is fixed at compile time.
func Must[S any](s *Slice[S], err error) *Slice[S] {
	if err != nil {
		panic(err)
	}
	return s
}

// TypeOf returns the action type for a handler key of the named slice.
func TypeOf(name, key string) string { return name + Separator + key }

// Name returns the slice name.
func (s *Slice[S]) Name() string { return s.name }

// InitialState returns the state the reducer starts from.
func (s *Slice[S]) InitialState() S { return s.initial }

// Reduce computes the next state from state and a. Action types the slice
// does not handle return state unchanged. Handler errors are returned with
// the action type attached.
func (s *Slice[S]) Reduce(state S, a Action) (S, error) {
	h, ok := s.handlers[a.Type]
	if !ok {
		return state, nil
	}
	next, err := h(state, a)
	if err != nil {
		return state, fmt.Errorf("reduce %s: %w", a.Type, err)
	}
	return next, nil
}

// Reducer returns the slice reducer for registration with a store.
func (s *Slice[S]) Reducer() Reducer[S] {
	return func(state *S, a Action) (S, error) {
		cur := s.initial
		if state != nil {
			cur = *state
		}
		return s.Reduce(cur, a)
	}
}

// Actions returns one creator per handler key. The returned map is a copy.
func (s *Slice[S]) Actions() map[string]Creator {
	out := make(map[string]Creator, len(s.creators))
	for k, c := range s.creators {
		out[k] = c
	}
	return out
}

// Creator returns the creator for a handler key.
func (s *Slice[S]) Creator(key string) (Creator, bool) {
	c, ok := s.creators[key]
	return c, ok
}

// Keys returns the handler keys in sorted order.
func (s *Slice[S]) Keys() []string {
	keys := make([]string, 0, len(s.creators))
	for k := range s.creators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Types returns every action type the reducer responds to, sorted.
func (s *Slice[S]) Types() []string {
	types := make([]string, 0, len(s.handlers))
	for t := range s.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Has reports whether the reducer responds to actionType.
func (s *Slice[S]) Has(actionType string) bool {
	_, ok := s.handlers[actionType]
	return ok
}
