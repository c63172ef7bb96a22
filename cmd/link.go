// link.go implements page link commands: create, remove and list in
// both directions.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/store"
)

var linkCmd = &cobra.Command{
	Use:   "link <source-page-id> <target-page-id>",
	Short: "Create a directed link between two pages",
	Long: `Create a directed, typed link from one page to another. Self-links
are rejected; parallel links between the same pages are allowed.

  devise link SRC TGT
  devise link SRC TGT --text "see also" --type reference`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		typ, _ := cmd.Flags().GetString("type")

		l, err := ws.Graph.Create(cmd.Context(), args[0], args[1], text, store.LinkType(typ))
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(l.ToJSON())
		}
		fmt.Fprintf(Out(), "%s  %s -> %s\n", l.ID, l.SourceID, l.TargetID)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <link-id>",
	Short: "Remove a link by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Graph.Unlink(cmd.Context(), args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"removed": args[0]})
		}
		fmt.Fprintf(Out(), "removed %s\n", args[0])
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links <page-id>",
	Short: "List a page's links",
	Long: `List links touching a page: outgoing links in creation order, then
backlinks (links from other pages targeting this one).

  devise links PAGE
  devise links PAGE --backlinks    # backlinks only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backlinksOnly, _ := cmd.Flags().GetBool("backlinks")

		var outgoing, backlinks []store.PageLink
		if !backlinksOnly {
			outgoing = ws.Graph.Outgoing(args[0])
		}
		backlinks = ws.Graph.Backlinks(args[0])

		if JSON() {
			toJSON := func(links []store.PageLink) []store.LinkJSON {
				out := make([]store.LinkJSON, len(links))
				for i := range links {
					out[i] = links[i].ToJSON()
				}
				return out
			}
			return PrintJSON(map[string]any{
				"outgoing":  toJSON(outgoing),
				"backlinks": toJSON(backlinks),
			})
		}
		format.Links(Out(), args[0], outgoing)
		format.Links(Out(), args[0], backlinks)
		return nil
	},
}

func init() {
	linkCmd.Flags().StringP("text", "t", "", "Display text for the link")
	linkCmd.Flags().String("type", string(store.LinkManual), "Link type: manual, auto, reference, related")
	linksCmd.Flags().BoolP("backlinks", "b", false, "Show backlinks only")

	rootCmd.AddCommand(linkCmd, unlinkCmd, linksCmd)
}
