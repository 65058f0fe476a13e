package global

import (
	"fmt"
	"strings"

	"github.com/jask/globalstate/internal/slice"
)

// Handler keys.
const (
	KeySetTheme      = "setTheme"
	KeyToggleTheme   = "toggleTheme"
	KeySetSidebar    = "setSidebar"
	KeyToggleSidebar = "toggleSidebar"
	KeySetBusy       = "setBusy"
	KeyShowNotice    = "showNotice"
	KeyClearNotice   = "clearNotice"
	KeyReset         = "reset"
)

// Slice is the composed global slice. It is immutable.
var Slice = slice.Must[State](slice.New(Name, InitialState, Handlers()))

// Handlers returns the transition for every global action.
func Handlers() map[string]slice.Handler[State] {
	return map[string]slice.Handler[State]{
		KeySetTheme:      setTheme,
		KeyToggleTheme:   slice.Pure(toggleTheme),
		KeySetSidebar:    setSidebar,
		KeyToggleSidebar: slice.Pure(toggleSidebar),
		KeySetBusy:       setBusy,
		KeyShowNotice:    showNotice,
		KeyClearNotice:   slice.Pure(clearNotice),
		KeyReset:         slice.Pure(reset),
	}
}

func setTheme(s State, a slice.Action) (State, error) {
	var (
		t   Theme
		err error
	)
	switch p := a.Payload.(type) {
	case Theme:
		t, err = ParseTheme(string(p))
	case string:
		t, err = ParseTheme(p)
	case nil:
		return s, fmt.Errorf("%s: %w", a.Type, slice.ErrPayloadMissing)
	default:
		return s, fmt.Errorf("%s: %w: got %T", a.Type, slice.ErrPayloadType, a.Payload)
	}
	if err != nil {
		return s, err
	}
	s.Theme = t
	return s, nil
}

func toggleTheme(s State, _ slice.Action) State {
	s.Theme = s.Theme.Toggle()
	return s
}

func setSidebar(s State, a slice.Action) (State, error) {
	open, err := slice.PayloadAs[bool](a)
	if err != nil {
		return s, err
	}
	s.SidebarOpen = open
	return s, nil
}

func toggleSidebar(s State, _ slice.Action) State {
	s.SidebarOpen = !s.SidebarOpen
	return s
}

func setBusy(s State, a slice.Action) (State, error) {
	busy, err := slice.PayloadAs[bool](a)
	if err != nil {
		return s, err
	}
	s.Busy = busy
	return s, nil
}

func showNotice(s State, a slice.Action) (State, error) {
	msg, err := slice.PayloadAs[string](a)
	if err != nil {
		return s, err
	}
	s.Notice = strings.TrimSpace(msg)
	return s, nil
}

func clearNotice(s State, _ slice.Action) State {
	s.Notice = ""
	return s
}

func reset(State, slice.Action) State { return InitialState }

// SetTheme returns the action selecting theme t.
func SetTheme(t Theme) slice.Action { return create(KeySetTheme, t) }

// ToggleTheme returns the action switching between light and dark.
func ToggleTheme() slice.Action { return create(KeyToggleTheme, nil) }

// SetSidebar returns the action opening or closing the sidebar.
func SetSidebar(open bool) slice.Action { return create(KeySetSidebar, open) }

// ToggleSidebar returns the action flipping sidebar visibility.
func ToggleSidebar() slice.Action { return create(KeyToggleSidebar, nil) }

// SetBusy returns the action marking the app busy or idle.
func SetBusy(busy bool) slice.Action { return create(KeySetBusy, busy) }

// ShowNotice returns the action displaying msg.
func ShowNotice(msg string) slice.Action { return create(KeyShowNotice, msg) }

// ClearNotice returns the action hiding the notice.
func ClearNotice() slice.Action { return create(KeyClearNotice, nil) }

// Reset returns the action restoring InitialState.
func Reset() slice.Action { return create(KeyReset, nil) }

func create(key string, payload any) slice.Action {
	c, ok := Slice.Creator(key)
	if !ok {
		panic("global: no creator for " + key)
	}
	return c.New(payload)
}
