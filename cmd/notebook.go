// notebook.go implements notebook management commands: create, list,
// show, update, delete and reorder.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/hierarchy"
	"github.com/jpl-au/devise/internal/store"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage notebooks",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var notebookCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		color, _ := cmd.Flags().GetString("color")

		n, err := ws.Hierarchy.CreateNotebook(cmd.Context(), args[0], description, color)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(n.ToJSON())
		}
		fmt.Fprintf(Out(), "%s  %s\n", n.ID, n.Title)
		return nil
	},
}

var notebookLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notebooks in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		notebooks, err := ws.Hierarchy.ListNotebooks(cmd.Context())
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			result := make([]store.NotebookJSON, len(notebooks))
			for i := range notebooks {
				result[i] = notebooks[i].ToJSON()
			}
			return PrintJSON(result)
		}
		format.Notebooks(Out(), notebooks)
		return nil
	},
}

var notebookShowCmd = &cobra.Command{
	Use:   "show <notebook-id>",
	Short: "Show a notebook's full hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := ws.Hierarchy.GetHierarchy(cmd.Context(), args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(tree)
		}
		format.Tree(Out(), tree)
		return nil
	},
}

var notebookUpdateCmd = &cobra.Command{
	Use:   "update <notebook-id>",
	Short: "Update a notebook's title, description or colour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd store.NotebookUpdate
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			upd.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			upd.Description = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			upd.Color = &v
		}

		n, err := ws.Hierarchy.UpdateNotebook(cmd.Context(), args[0], upd)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(n.ToJSON())
		}
		fmt.Fprintf(Out(), "%s  %s\n", n.ID, n.Title)
		return nil
	},
}

var notebookRmCmd = &cobra.Command{
	Use:   "rm <notebook-id>",
	Short: "Delete a notebook and everything in it",
	Long: `Delete a notebook, cascading to its sections, pages, sub-pages and
any links touching those pages. Deleting an unknown id is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Hierarchy.DeleteNotebook(cmd.Context(), args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"deleted": args[0]})
		}
		fmt.Fprintf(Out(), "deleted %s\n", args[0])
		return nil
	},
}

var notebookReorderCmd = &cobra.Command{
	Use:   "reorder <notebook-id> <index>",
	Short: "Move a notebook to a new position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[1])
		if err != nil {
			return PrintJSONError(err)
		}
		if err := ws.Hierarchy.Reorder(cmd.Context(), hierarchy.KindNotebook, args[0], idx); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]any{"id": args[0], "index": idx})
		}
		fmt.Fprintf(Out(), "moved %s to %d\n", args[0], idx)
		return nil
	},
}

func init() {
	notebookCreateCmd.Flags().StringP("description", "d", "", "Notebook description")
	notebookCreateCmd.Flags().StringP("color", "c", "", "Display colour (#RRGGBB)")
	notebookUpdateCmd.Flags().String("title", "", "New title")
	notebookUpdateCmd.Flags().StringP("description", "d", "", "New description")
	notebookUpdateCmd.Flags().StringP("color", "c", "", "New colour")

	notebookCmd.AddCommand(notebookCreateCmd, notebookLsCmd, notebookShowCmd,
		notebookUpdateCmd, notebookRmCmd, notebookReorderCmd)
	rootCmd.AddCommand(notebookCmd)
}
