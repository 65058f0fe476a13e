// Package global defines the application-wide "global" slice: UI theme,
// sidebar visibility, a busy flag and a one-line notice.
package global

import (
	"errors"
	"fmt"
	"strings"
)

// Name is the slice name and the prefix of every action type it owns.
const Name = "global"

// ErrUnknownTheme indicates a theme name other than light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme selects the UI palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme normalises s into a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is the global slice state. All fields are values, so copies made
// by the reducer never alias each other.
type State struct {
	Theme       Theme  `json:"theme"`
	SidebarOpen bool   `json:"sidebar_open"`
	Busy        bool   `json:"busy"`
	Notice      string `json:"notice,omitempty"`
}

// InitialState is the state before any action has been applied.
var InitialState = State{
	Theme:       ThemeLight,
	SidebarOpen: true,
}
