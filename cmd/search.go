// search.go implements the search command with query history and saved
// searches.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/search"
	"github.com/jpl-au/devise/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search pages by title, content or tags",
	Long: `Search pages with a case-insensitive substring match over titles,
content and tags; newest results first.

  devise search "retro notes"
  devise search meeting --notebook NB --tag work --limit 10
  devise search meeting --save weekly     # save for later reuse
  devise search --saved weekly            # run a saved search
  devise search --history                 # recent queries`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showHistory, _ := cmd.Flags().GetBool("history")
		savedName, _ := cmd.Flags().GetString("saved")
		saveName, _ := cmd.Flags().GetString("save")

		if showHistory {
			return printHistory(cmd)
		}
		if savedName != "" {
			results, err := ws.Search.RunSaved(cmd.Context(), savedName)
			if err != nil {
				return PrintJSONError(err)
			}
			return printResults(results)
		}

		if len(args) == 0 {
			return PrintJSONError(fmt.Errorf("a query is required (or --history / --saved)"))
		}

		notebookID, _ := cmd.Flags().GetString("notebook")
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		opts := store.SearchOptions{NotebookID: notebookID, Tag: tag, Limit: limit}

		if saveName != "" {
			saved := search.SavedSearch{Name: saveName, Query: args[0], NotebookID: notebookID, Tag: tag}
			if err := ws.Search.Save(cmd.Context(), saved); err != nil {
				return PrintJSONError(err)
			}
		}

		results, err := ws.Search.Search(cmd.Context(), args[0], opts)
		if err != nil {
			return PrintJSONError(err)
		}
		return printResults(results)
	},
}

func printResults(results []search.Result) error {
	if JSON() {
		return PrintJSON(results)
	}
	format.Results(Out(), results)
	return nil
}

func printHistory(cmd *cobra.Command) error {
	history, err := ws.Search.History(cmd.Context())
	if err != nil {
		return PrintJSONError(err)
	}
	if JSON() {
		return PrintJSON(history)
	}
	for _, q := range history {
		fmt.Fprintln(Out(), q)
	}
	return nil
}

func init() {
	searchCmd.Flags().StringP("notebook", "n", "", "Limit to one notebook")
	searchCmd.Flags().StringP("tag", "t", "", "Require a tag")
	searchCmd.Flags().IntP("limit", "l", 0, "Maximum number of results")
	searchCmd.Flags().Bool("history", false, "Show recent queries")
	searchCmd.Flags().String("save", "", "Save this search under a name")
	searchCmd.Flags().String("saved", "", "Run a saved search by name")

	rootCmd.AddCommand(searchCmd)
}
