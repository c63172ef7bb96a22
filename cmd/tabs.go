// tabs.go implements the workspace tab session commands. The tab list
// persists across invocations through the workspace database, so open,
// switch and close behave like a long-running editor session driven
// from the shell.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/format"
	"github.com/jpl-au/devise/internal/session"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Manage the open tab session",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var tabsOpenCmd = &cobra.Command{
	Use:   "open <page-id>",
	Short: "Open a page in a tab",
	Long: `Open a tab for a page and make it active. Opening a page that is
already open switches to its existing tab. At capacity, the least
recently used tab is evicted first.

  devise tabs open PAGE
  devise tabs open --view search    # open a fixed view instead`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")

		var d session.Descriptor
		switch {
		case view != "":
			d = session.Descriptor{Kind: session.Kind(view), Title: view}
		case len(args) == 1:
			p, err := ws.Hierarchy.GetPage(cmd.Context(), args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			d = session.Descriptor{Kind: session.KindPage, PageID: p.ID, Title: p.Title}
		default:
			return PrintJSONError(fmt.Errorf("a page id or --view is required"))
		}

		id, err := ws.Session.Open(d)
		if err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"tab_id": id})
		}
		fmt.Fprintf(Out(), "%s\n", id)
		return nil
	},
}

var tabsCloseCmd = &cobra.Command{
	Use:   "close [tab-id]",
	Short: "Close a tab (the active tab when no id is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		} else if active := ws.Session.Active(); active != nil {
			id = active.ID
		} else {
			return PrintJSONError(fmt.Errorf("no active tab"))
		}

		if err := ws.Session.Close(id); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"closed": id})
		}
		fmt.Fprintf(Out(), "closed %s\n", id)
		return nil
	},
}

var tabsCloseOthersCmd = &cobra.Command{
	Use:   "close-others <tab-id>",
	Short: "Close every tab except one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Session.CloseOthers(args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"kept": args[0]})
		}
		fmt.Fprintf(Out(), "kept %s\n", args[0])
		return nil
	},
}

var tabsCloseAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Close every tab",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws.Session.CloseAll()
		if JSON() {
			return PrintJSON(map[string]string{"status": "closed"})
		}
		fmt.Fprintln(Out(), "closed all tabs")
		return nil
	},
}

var tabsSwitchCmd = &cobra.Command{
	Use:   "switch <tab-id>",
	Short: "Make a tab active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ws.Session.SwitchTo(args[0]); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{"active": args[0]})
		}
		fmt.Fprintf(Out(), "switched to %s\n", args[0])
		return nil
	},
}

var tabsNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Activate the next tab (cyclic)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws.Session.Next()
		return printActive()
	},
}

var tabsPrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Activate the previous tab (cyclic)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws.Session.Previous()
		return printActive()
	},
}

var tabsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List open tabs in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tabs := ws.Session.Tabs()
		if JSON() {
			return PrintJSON(tabs)
		}
		format.Tabs(Out(), tabs)
		return nil
	},
}

var tabsReorderCmd = &cobra.Command{
	Use:   "reorder <from-index> <to-index>",
	Short: "Move a tab to a new position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseIndex(args[0])
		if err != nil {
			return PrintJSONError(err)
		}
		to, err := parseIndex(args[1])
		if err != nil {
			return PrintJSONError(err)
		}
		if err := ws.Session.Reorder(from, to); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]int{"from": from, "to": to})
		}
		fmt.Fprintf(Out(), "moved tab %d to %d\n", from, to)
		return nil
	},
}

func printActive() error {
	active := ws.Session.Active()
	if active == nil {
		if JSON() {
			return PrintJSON(map[string]any{"active": nil})
		}
		fmt.Fprintln(Out(), "no open tabs")
		return nil
	}
	if JSON() {
		return PrintJSON(active)
	}
	fmt.Fprintf(Out(), "%s  %s\n", active.ID, active.Title)
	return nil
}

func init() {
	tabsOpenCmd.Flags().String("view", "", "Open a fixed view: dashboard, search or settings")

	tabsCmd.AddCommand(tabsOpenCmd, tabsCloseCmd, tabsCloseOthersCmd, tabsCloseAllCmd,
		tabsSwitchCmd, tabsNextCmd, tabsPrevCmd, tabsLsCmd, tabsReorderCmd)
	rootCmd.AddCommand(tabsCmd)
}
