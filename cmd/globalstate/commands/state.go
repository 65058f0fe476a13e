package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/globalstate/internal/command"
	"github.com/jask/globalstate/internal/global"
	"github.com/jask/globalstate/internal/prefs"
)

func printState(cmd *cobra.Command, s global.State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the current global state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printState(cmd, appEnv.store.State())
		},
	}
}

func dispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dispatch <action> [payload]",
		Short:   "Apply one action and print the resulting state",
		Example: "  globalstate dispatch setTheme dark\n  globalstate dispatch global/toggleSidebar",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := command.Parse(strings.Join(args, " "), global.Slice)
			if err != nil {
				return err
			}
			if err := appEnv.store.Dispatch(cmd.Context(), act); err != nil {
				return err
			}
			return printState(cmd, appEnv.store.State())
		},
	}
}

func actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the action types the global slice handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range global.Slice.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the current global state to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prefs.WriteJSON(args[0], appEnv.store.State()); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "state written to %s\n", args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved global state with the contents of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := global.InitialState
			if err := prefs.ReadJSON(args[0], &s); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			if _, err := global.ParseTheme(string(s.Theme)); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			if err := appEnv.persister.Hydrate(cmd.Context(), s); err != nil {
				return err
			}
			return printState(cmd, s)
		},
	}
}
