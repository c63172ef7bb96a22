// section.go implements section management commands.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/hierarchy"
	"github.com/jpl-au/devise/internal/store"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage sections within a notebook",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var sectionCreateCmd = &cobra.Command{
	Use:   "create <notebook-id> <title>",
	Short: "Create a section at the end of a notebook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")

		sec, err := ws.Hierarchy.CreateSection(cmd.Context(), args[0], args[1], color)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(sec.ToJSON())
		}
		fmt.Fprintf(Out(), "%s  %s\n", sec.ID, sec.Title)
		return nil
	},
}

var sectionLsCmd = &cobra.Command{
	Use:   "ls <notebook-id>",
	Short: "List a notebook's sections in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := ws.Store.ListSections(cmd.Context(), args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			result := make([]store.SectionJSON, len(sections))
			for i := range sections {
				result[i] = sections[i].ToJSON()
			}
			return PrintJSON(result)
		}
		format.Sections(Out(), sections)
		return nil
	},
}

var sectionUpdateCmd = &cobra.Command{
	Use:   "update <section-id>",
	Short: "Update a section's title or colour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd store.SectionUpdate
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			upd.Title = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			upd.Color = &v
		}

		sec, err := ws.Hierarchy.UpdateSection(cmd.Context(), args[0], upd)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(sec.ToJSON())
		}
		fmt.Fprintf(Out(), "%s  %s\n", sec.ID, sec.Title)
		return nil
	},
}

var sectionRmCmd = &cobra.Command{
	Use:   "rm <section-id>",
	Short: "Delete a section and its pages",
	Long: `Delete a section, cascading to its pages, their sub-pages and any
links touching those pages. Deleting an unknown id is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Hierarchy.DeleteSection(cmd.Context(), args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"deleted": args[0]})
		}
		fmt.Fprintf(Out(), "deleted %s\n", args[0])
		return nil
	},
}

var sectionReorderCmd = &cobra.Command{
	Use:   "reorder <section-id> <index>",
	Short: "Move a section to a new position in its notebook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[1])
		if err != nil {
			return PrintJSONError(err)
		}
		if err := ws.Hierarchy.Reorder(cmd.Context(), hierarchy.KindSection, args[0], idx); err != nil {
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
	sectionCreateCmd.Flags().StringP("color", "c", "", "Display colour (#RRGGBB)")
	sectionUpdateCmd.Flags().String("title", "", "New title")
	sectionUpdateCmd.Flags().StringP("color", "c", "", "New colour")

	sectionCmd.AddCommand(sectionCreateCmd, sectionLsCmd, sectionUpdateCmd,
		sectionRmCmd, sectionReorderCmd)
	rootCmd.AddCommand(sectionCmd)
}
