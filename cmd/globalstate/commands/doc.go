// Package commands defines the globalstate CLI and wires dependencies for subcommands.
//
// Commands
//
//   - (none)    Run the terminal UI
//   - state     Print the current global state as JSON
//   - dispatch  Apply one action, e.g. "dispatch setTheme dark"
//   - actions   List the action types the global slice handles
//   - journal   Show recently dispatched actions
//   - replay    Rebuild state from the journal and print it
//   - reset     Delete the saved state and the journal
//   - export    Write the current state to a JSON file
//   - import    Replace the saved state with a JSON file
//
// # Implementation
//
// The root command loads config, migrates and opens the sqlite database,
// restores the saved state and builds one store before any subcommand runs.
// Subcommands share that store; nothing reaches for a package-level store.
package commands
