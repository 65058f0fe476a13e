package slice

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadMissing indicates an action carried no payload where one was required.
	ErrPayloadMissing = errors.New("action payload is required")
	// ErrPayloadType indicates an action payload of the wrong Go type.
	ErrPayloadType = errors.New("action payload has unexpected type")
)

// Action is a tagged record describing an intended state change.
// Type has the form "<slice>/<handler>". A nil Payload means no payload.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Error   bool   `json:"error,omitempty"`
}

// HasPayload reports whether the action carries a payload.
func (a Action) HasPayload() bool { return a.Payload != nil }

// PayloadAs returns the payload as T.
func PayloadAs[T any](a Action) (T, error) {
	var zero T
	if a.Payload == nil {
		return zero, fmt.Errorf("%s: %w", a.Type, ErrPayloadMissing)
	}
	v, ok := a.Payload.(T)
	if !ok {
		return zero, fmt.Errorf("%s: %w: got %T, want %T", a.Type, ErrPayloadType, a.Payload, zero)
	}
	return v, nil
}

// Prepared is the result of a prepare callback.
type Prepared struct {
	Payload any
	Meta    any
	Error   bool
}

// PrepareFunc builds the payload (and optional meta) of an action from
// arbitrary creator arguments.
type PrepareFunc func(args ...any) (Prepared, error)

// Creator builds actions for one handler of a slice.
type Creator struct {
	typ     string
	prepare PrepareFunc
}

// Type returns the action type produced by the creator.
func (c Creator) Type() string { return c.typ }

// String implements fmt.Stringer.
func (c Creator) String() string { return c.typ }

// New returns an action carrying payload. Pass nil for no payload.
func (c Creator) New(payload any) Action {
	return Action{Type: c.typ, Payload: payload}
}

// Prepare runs the prepare callback registered for the handler, if any,
// and returns the resulting action. Without a callback the first argument
// (if present) becomes the payload.
func (c Creator) Prepare(args ...any) (Action, error) {
	if c.prepare == nil {
		if len(args) == 0 {
			return c.New(nil), nil
		}
		if len(args) > 1 {
			return Action{}, fmt.Errorf("%s: expected at most one argument, got %d", c.typ, len(args))
		}
		return c.New(args[0]), nil
	}
	p, err := c.prepare(args...)
	if err != nil {
		return Action{}, fmt.Errorf("prepare %s: %w", c.typ, err)
	}
	return Action{Type: c.typ, Payload: p.Payload, Meta: p.Meta, Error: p.Error}, nil
}

// Match reports whether a was produced for this creator's type.
func (c Creator) Match(a Action) bool { return a.Type == c.typ }
