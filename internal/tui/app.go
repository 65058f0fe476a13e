package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/globalstate/internal/command"
	"github.com/jask/globalstate/internal/config"
	"github.com/jask/globalstate/internal/global"
	"github.com/jask/globalstate/internal/slice"
	"github.com/jask/globalstate/internal/store"
)

// App renders the global slice and dispatches actions from key presses
// and the command prompt.
type App struct {
	ctx    context.Context
	store  *store.Store[global.State]
	save   SaveFunc
	state  global.State
	status string
	failed bool

	promptOpen bool
	input      string

	width  int
	height int
}

// SaveFunc persists the ui preferences; config.SaveUI in production.
type SaveFunc func(config.UIConfig) error

func New(ctx context.Context, st *store.Store[global.State], save SaveFunc) *App {
	return &App{
		ctx:   ctx,
		store: st,
		save:  save,
		state: st.State(),
	}
}

type stateMsg global.State

type statusMsg string

type errMsg struct{ error }

func (a *App) Init() tea.Cmd { return nil }

func (a *App) dispatchCmd(act slice.Action) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Dispatch(a.ctx, act); err != nil {
			return errMsg{err}
		}
		return stateMsg(a.store.State())
	}
}

func (a *App) savePrefsCmd() tea.Cmd {
	ui := config.UIConfig{Theme: string(a.state.Theme), SidebarOpen: a.state.SidebarOpen}
	return func() tea.Msg {
		if a.save == nil {
			return errMsg{errors.New("saving preferences is not configured")}
		}
		if err := a.save(ui); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("saved %s theme as default", ui.Theme))
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.promptOpen {
			return a.handlePromptKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "t":
			return a, a.dispatchCmd(global.ToggleTheme())
		case "b":
			return a, a.dispatchCmd(global.ToggleSidebar())
		case "r":
			return a, a.dispatchCmd(global.Reset())
		case "c":
			return a, a.dispatchCmd(global.ClearNotice())
		case "w":
			return a, a.savePrefsCmd()
		case ":":
			a.promptOpen = true
			a.input = ""
		}
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case stateMsg:
		a.state = global.State(m)
		a.status, a.failed = "", false
	case statusMsg:
		a.status, a.failed = string(m), false
	case errMsg:
		a.status, a.failed = "error: "+m.Error(), true
	}
	return a, nil
}

func (a *App) handlePromptKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.promptOpen = false
		a.input = ""
	case tea.KeyEnter:
		line := a.input
		a.promptOpen = false
		a.input = ""
		act, err := command.Parse(line, global.Slice)
		if err != nil {
			if errors.Is(err, command.ErrEmpty) {
				return a, nil
			}
			a.status, a.failed = "error: "+err.Error(), true
			return a, nil
		}
		return a, a.dispatchCmd(act)
	case tea.KeyBackspace:
		if r := []rune(a.input); len(r) > 0 {
			a.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		a.input += " "
	case tea.KeyRunes:
		a.input += string(m.Runes)
	}
	return a, nil
}

func (a *App) View() string {
	st := stylesFor(a.state.Theme)

	title := st.title.Render("globalstate")
	main := st.panel.Render(a.renderState(st))
	body := main
	if a.state.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, st.sidebar.Render(a.renderSidebar(st)), main)
	}

	lines := []string{title, body}
	if a.state.Busy {
		lines = append(lines, st.busy.Render("working…"))
	}
	if a.state.Notice != "" {
		lines = append(lines, st.notice.Render(a.state.Notice))
	}
	if a.promptOpen {
		lines = append(lines, st.prompt.Render(":"+a.input+"█"))
	} else if a.status != "" {
		if a.failed {
			lines = append(lines, st.err.Render(a.status))
		} else {
			lines = append(lines, st.muted.Render(a.status))
		}
	}
	lines = append(lines, st.footer.Render(a.footer()))
	return strings.Join(lines, "\n")
}

func (a *App) renderState(st styles) string {
	row := func(label, value string) string {
		return st.label.Render(label) + st.value.Render(value)
	}
	notice := a.state.Notice
	if notice == "" {
		notice = "-"
	}
	return strings.Join([]string{
		row("theme", string(a.state.Theme)),
		row("sidebar", onOff(a.state.SidebarOpen)),
		row("busy", onOff(a.state.Busy)),
		row("notice", notice),
	}, "\n")
}

func (a *App) renderSidebar(st styles) string {
	out := append([]string{st.title.Render("actions")}, global.Slice.Keys()...)
	return strings.Join(out, "\n")
}

func (a *App) footer() string {
	if a.promptOpen {
		return "[enter] Dispatch  [esc] Cancel"
	}
	return "[t] Theme  [b] Sidebar  [c] Clear notice  [r] Reset  [:] Command  [w] Save default  [q] Quit"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
