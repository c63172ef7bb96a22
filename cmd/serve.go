// serve.go implements the serve command: run the MCP server over stdio.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start a Model Context Protocol server so LLM clients can browse
notebooks, read and create pages, follow links and search. The server
works without an initialised workspace; clients can call devise_init.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
