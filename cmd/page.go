// page.go implements page management commands: create, read, write,
// move, delete, reorder and tag suggestions.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/diff"
	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/hierarchy"
	"github.com/jpl-au/devise/internal/store"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage pages",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var pageCreateCmd = &cobra.Command{
	Use:   "create <notebook-id> <title>",
	Short: "Create a page",
	Long: `Create a page at the end of its sibling scope: directly under the
notebook, inside a section (--section), or as a sub-page (--parent).

  devise page create NB "Meeting notes"
  devise page create NB "Agenda" --section SEC
  devise page create NB "Follow-ups" --parent PAGE --tags work,meetings`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		tags, _ := cmd.Flags().GetString("tags")

		params := store.CreatePageParams{
			NotebookID: args[0],
			Title:      args[1],
			Content:    content,
			Tags:       parseTags(tags),
		}
		if s, _ := cmd.Flags().GetString("section"); s != "" {
			params.SectionID = &s
		}
		if p, _ := cmd.Flags().GetString("parent"); p != "" {
			params.ParentPageID = &p
		}

		p, err := ws.Hierarchy.CreatePage(cmd.Context(), params)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(p.ToJSON(false))
		}
		fmt.Fprintf(Out(), "%s  %s\n", p.ID, p.Title)
		return nil
	},
}

var pageCatCmd = &cobra.Command{
	Use:   "cat <page-id>",
	Short: "Print a page's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := ws.Hierarchy.GetPage(cmd.Context(), args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(p.ToJSON(true))
		}
		fmt.Fprint(Out(), p.Content)
		if !strings.HasSuffix(p.Content, "\n") {
			fmt.Fprintln(Out())
		}
		return nil
	},
}

var pageLsCmd = &cobra.Command{
	Use:   "ls <notebook-id>",
	Short: "List a notebook's pages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := ws.Store.ListPages(cmd.Context(), args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			result := make([]store.PageJSON, len(pages))
			for i := range pages {
				result[i] = pages[i].ToJSON(false)
			}
			return PrintJSON(result)
		}
		format.Pages(Out(), pages)
		return nil
	},
}

var pageWriteCmd = &cobra.Command{
	Use:   "write <page-id> [content]",
	Short: "Replace a page's content",
	Long: `Replace a page's content with the argument, or with stdin when the
argument is omitted. With --diff, the change is printed before being
applied.

  devise page write PAGE "new content"
  cat notes.md | devise page write PAGE
  devise page write PAGE "new content" --diff`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		showDiff, _ := cmd.Flags().GetBool("diff")

		var content string
		if len(args) == 2 {
			content = args[1]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return PrintJSONError(fmt.Errorf("read stdin: %w", err))
			}
			content = string(data)
		}

		if showDiff && !JSON() {
			p, err := ws.Hierarchy.GetPage(cmd.Context(), args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			r := diff.Compute(p.Content, content, "current", "new")
			fmt.Fprint(Out(), r.Format(format.Colour()))
		}

		p, err := ws.Hierarchy.UpdatePage(cmd.Context(), args[0], store.PageUpdate{Content: &content})
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(p.ToJSON(false))
		}
		fmt.Fprintf(Out(), "wrote %s\n", p.ID)
		return nil
	},
}

var pageUpdateCmd = &cobra.Command{
	Use:   "update <page-id>",
	Short: "Update a page's title or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd store.PageUpdate
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			upd.Title = &v
		}
		if cmd.Flags().Changed("tags") {
			v, _ := cmd.Flags().GetString("tags")
			tags := parseTags(v)
			upd.Tags = &tags
		}

		p, err := ws.Hierarchy.UpdatePage(cmd.Context(), args[0], upd)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(p.ToJSON(false))
		}
		fmt.Fprintf(Out(), "%s  %s\n", p.ID, p.Title)
		return nil
	},
}

var pageMvCmd = &cobra.Command{
	Use:   "mv <page-id>",
	Short: "Move a page within its notebook",
	Long: `Move a page to a different section (--section), under a parent page
(--parent), or to the notebook root (no flags). The page's sub-pages
move with it. A move that would make a page its own ancestor fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sectionID, parentID *string
		if s, _ := cmd.Flags().GetString("section"); s != "" {
			sectionID = &s
		}
		if p, _ := cmd.Flags().GetString("parent"); p != "" {
			parentID = &p
		}

		p, err := ws.Hierarchy.MovePage(cmd.Context(), args[0], sectionID, parentID)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(p.ToJSON(false))
		}
		fmt.Fprintf(Out(), "moved %s\n", p.ID)
		return nil
	},
}

var pageRmCmd = &cobra.Command{
	Use:   "rm <page-id>",
	Short: "Delete a page and its sub-pages",
	Long: `Delete a page, cascading to its sub-pages and any links touching the
deleted pages. Open tabs bound to deleted pages are closed. Deleting an
unknown id is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Hierarchy.DeletePage(cmd.Context(), args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"deleted": args[0]})
		}
		fmt.Fprintf(Out(), "deleted %s\n", args[0])
		return nil
	},
}

var pageReorderCmd = &cobra.Command{
	Use:   "reorder <page-id> <index>",
	Short: "Move a page to a new position among its siblings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[1])
		if err != nil {
			return PrintJSONError(err)
		}
		if err := ws.Hierarchy.Reorder(cmd.Context(), hierarchy.KindPage, args[0], idx); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]any{"id": args[0], "index": idx})
		}
		fmt.Fprintf(Out(), "moved %s to %d\n", args[0], idx)
		return nil
	},
}

var pageSuggestTagsCmd = &cobra.Command{
	Use:   "suggest-tags <page-id>",
	Short: "Suggest tags from a page's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := ws.Hierarchy.GetPage(cmd.Context(), args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		tags := ws.Analyzer.SuggestTags(p.Title + "\n" + p.Content)
		if JSON() {
			return PrintJSON(tags)
		}
		for _, t := range tags {
			fmt.Fprintln(Out(), t)
		}
		return nil
	},
}

func init() {
	pageCreateCmd.Flags().StringP("content", "c", "", "Initial content")
	pageCreateCmd.Flags().StringP("section", "s", "", "Section to place the page in")
	pageCreateCmd.Flags().StringP("parent", "p", "", "Parent page for a sub-page")
	pageCreateCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	pageWriteCmd.Flags().Bool("diff", false, "Show the change before applying")
	pageUpdateCmd.Flags().String("title", "", "New title")
	pageUpdateCmd.Flags().StringP("tags", "t", "", "Comma-separated tags (replaces existing)")
	pageMvCmd.Flags().StringP("section", "s", "", "Destination section")
	pageMvCmd.Flags().StringP("parent", "p", "", "Destination parent page")

	pageCmd.AddCommand(pageCreateCmd, pageCatCmd, pageLsCmd, pageWriteCmd,
		pageUpdateCmd, pageMvCmd, pageRmCmd, pageReorderCmd, pageSuggestTagsCmd)
	rootCmd.AddCommand(pageCmd)
}
