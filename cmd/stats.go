// stats.go implements the stats command: aggregate workspace counts.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := ws.Store.GetStats(cmd.Context())
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(st)
		}
		format.Stats(Out(), st)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
