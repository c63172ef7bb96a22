// init.go implements the init command: create a new devise workspace.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/repo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a new devise workspace",
	Long: `Create a .devise directory with the content database.

  devise init            # initialise in the current directory
  devise init --force    # reinitialise, discarding existing content`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := repo.Init(Force(), Dir()); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"status": "initialised"})
		}
		fmt.Fprintln(Out(), "initialised devise workspace")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
