package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/globalstate/internal/config"
	"github.com/jask/globalstate/internal/tui"
)

var (
	dbPath string
	appEnv *env
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "globalstate",
		Short:         "Inspect and change the global UI state",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			// the TUI owns the terminal; keep logs off it
			interactive := cmd.Parent() == nil
			appEnv, err = wire(cmd.Context(), cfg, interactive)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			appEnv.close()
			appEnv = nil
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			p := tea.NewProgram(tui.New(ctx, appEnv.store, config.SaveUI), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (overrides database.path)")

	root.AddCommand(stateCmd(), dispatchCmd(), actionsCmd(), journalCmd(), replayCmd(), resetCmd(), exportCmd(), importCmd())
	return root
}
