package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/globalstate/internal/config"
	"github.com/jask/globalstate/internal/global"
	"github.com/jask/globalstate/internal/store"
)

func newTestApp(t *testing.T, save SaveFunc) *App {
	t.Helper()
	st, err := store.New(global.Slice.Reducer())
	require.NoError(t, err)
	return New(context.Background(), st, save)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds the resulting command's message back in.
func press(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd != nil {
		a.Update(cmd())
	}
}

func TestToggleThemeKey(t *testing.T) {
	a := newTestApp(t, nil)
	require.Equal(t, global.ThemeLight, a.state.Theme)

	press(t, a, keyRunes("t"))
	require.Equal(t, global.ThemeDark, a.state.Theme)
	require.Equal(t, global.ThemeDark, a.store.State().Theme)
	require.Contains(t, a.View(), "dark")
}

func TestSidebarKeyHidesActionList(t *testing.T) {
	a := newTestApp(t, nil)
	require.Contains(t, a.View(), "toggleSidebar")

	press(t, a, keyRunes("b"))
	require.False(t, a.state.SidebarOpen)
	require.NotContains(t, a.View(), "toggleSidebar")
}

func TestPromptDispatchesCommand(t *testing.T) {
	a := newTestApp(t, nil)
	press(t, a, keyRunes(":"))
	require.True(t, a.promptOpen)

	press(t, a, keyRunes("showNotice"))
	press(t, a, tea.KeyMsg{Type: tea.KeySpace})
	press(t, a, keyRunes("hello"))
	press(t, a, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Contains(t, a.View(), ":showNotice hell")

	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, a.promptOpen)
	require.Equal(t, "hell", a.state.Notice)
	require.Contains(t, a.View(), "hell")

	press(t, a, keyRunes("c"))
	require.Empty(t, a.state.Notice)
}

func TestPromptUnknownActionSuggests(t *testing.T) {
	a := newTestApp(t, nil)
	press(t, a, keyRunes(":"))
	press(t, a, keyRunes("setTheem"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, a.failed)
	require.Contains(t, a.status, "did you mean setTheme?")
	require.Equal(t, global.InitialState, a.store.State())
}

func TestPromptEscapeCancels(t *testing.T) {
	a := newTestApp(t, nil)
	press(t, a, keyRunes(":"))
	press(t, a, keyRunes("reset"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, a.promptOpen)
	require.Empty(t, a.input)
}

func TestReducerErrorShowsStatus(t *testing.T) {
	a := newTestApp(t, nil)
	press(t, a, keyRunes(":"))
	press(t, a, keyRunes("setTheme"))
	press(t, a, tea.KeyMsg{Type: tea.KeySpace})
	press(t, a, keyRunes("sepia"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, a.failed)
	require.Contains(t, a.status, "unknown theme")
	require.Equal(t, global.ThemeLight, a.state.Theme)
}

func TestSavePreferences(t *testing.T) {
	var saved config.UIConfig
	a := newTestApp(t, func(ui config.UIConfig) error {
		saved = ui
		return nil
	})
	press(t, a, keyRunes("t"))
	press(t, a, keyRunes("b"))
	press(t, a, keyRunes("w"))

	require.Equal(t, config.UIConfig{Theme: "dark", SidebarOpen: false}, saved)
	require.Equal(t, "saved dark theme as default", a.status)

	failing := newTestApp(t, func(config.UIConfig) error { return errors.New("disk full") })
	press(t, failing, keyRunes("w"))
	require.True(t, failing.failed)
	require.Contains(t, failing.status, "disk full")
}

func TestQuitKey(t *testing.T) {
	a := newTestApp(t, nil)
	_, cmd := a.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
