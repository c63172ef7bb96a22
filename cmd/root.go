// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE opens the workspace lazily - only commands
// that need it trigger discovery and database opening. This enables
// bootstrap commands (init, config, serve) to work without a workspace
// existing. The noWorkspaceCommands map controls which commands skip it.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/repo"
	"github.com/jpl-au/devise/internal/workspace"
)

// ws is the open workspace, nil for commands that don't need one.
var ws *workspace.Workspace

// noWorkspaceCommands are top-level commands that run without an
// initialised workspace.
var noWorkspaceCommands = map[string]bool{
	"init":       true,
	"config":     true,
	"serve":      true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "devise",
	Short: "Hierarchical knowledge store with linked pages and workspace tabs",
	Long:  `A local knowledge store organised as notebooks, sections and pages, with typed links between pages, lexical search, and a persistent tab session.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if noWorkspaceCommands[topLevelCmdName(cmd)] {
			return nil
		}

		w, err := openWorkspace(cmd.Context())
		if err != nil {
			if JSON() {
				_ = PrintJSON(map[string]string{"error": err.Error()})
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
			}
			return err
		}
		ws = w
		return nil
	},
}

// openWorkspace opens the discovered workspace, or the one under --dir.
func openWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	if d := Dir(); d != "" {
		return workspace.OpenDir(ctx, filepath.Join(d, repo.Dir))
	}
	return workspace.Open(ctx)
}

// topLevelCmdName returns the name of the top-level command (direct
// child of root). For "devise tabs open", returns "tabs".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle. Opens
// audit logging, executes the command, and ensures the workspace is
// persisted and closed before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)

	if ws != nil {
		if closeErr := ws.Close(ctx); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing workspace: %v\n", closeErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
