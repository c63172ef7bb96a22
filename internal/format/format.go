// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment, tree rendering, and colourised output.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jpl-au/devise/internal/search"
	"github.com/jpl-au/devise/internal/session"
	"github.com/jpl-au/devise/internal/store"
)

// Colour reports whether stdout is a terminal and ANSI colour is safe.
func Colour() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Notebooks prints notebooks in long format with id, page order and title.
func Notebooks(w io.Writer, notebooks []store.Notebook) {
	if len(notebooks) == 0 {
		return
	}
	fmt.Fprintf(w, "%-36s  %3s  %-10s  %s\n", "ID", "POS", "UPDATED", "TITLE")
	for _, n := range notebooks {
		date := time.Unix(n.UpdatedAt, 0).Format("2006-01-02")
		title := n.Title
		if n.Description != "" {
			title += "  - " + n.Description
		}
		fmt.Fprintf(w, "%s  %3d  %s  %s\n", n.ID, n.OrderIndex, date, title)
	}
}

// Sections prints a notebook's sections in order.
func Sections(w io.Writer, sections []store.Section) {
	if len(sections) == 0 {
		return
	}
	fmt.Fprintf(w, "%-36s  %3s  %s\n", "ID", "POS", "TITLE")
	for _, s := range sections {
		fmt.Fprintf(w, "%s  %3d  %s\n", s.ID, s.OrderIndex, s.Title)
	}
}

// Pages prints pages in long format.
func Pages(w io.Writer, pages []store.Page) {
	if len(pages) == 0 {
		return
	}
	fmt.Fprintf(w, "%-36s  %3s  %-16s  %s\n", "ID", "POS", "UPDATED", "TITLE")
	for _, p := range pages {
		updated := time.Unix(p.UpdatedAt, 0).Format("2006-01-02 15:04")
		tags := ""
		if len(p.Tags) > 0 {
			tags = "  [" + strings.Join(p.Tags, ", ") + "]"
		}
		fmt.Fprintf(w, "%s  %3d  %s  %s%s\n", p.ID, p.OrderIndex, updated, p.Title, tags)
	}
}

// Tree prints a notebook's hierarchy as a tree: sections at the top
// level, then pages and sub-pages in order.
func Tree(w io.Writer, tree *store.NotebookTree) {
	fmt.Fprintln(w, tree.Notebook.Title)

	type entry struct {
		label    string
		children []store.PageTree
	}
	var entries []entry
	for _, sec := range tree.Sections {
		entries = append(entries, entry{label: sec.Section.Title + "/", children: sec.Pages})
	}
	for _, p := range tree.Pages {
		entries = append(entries, entry{label: p.Page.Title, children: p.Children})
	}

	var printForest func(pages []store.PageTree, prefix string)
	printForest = func(pages []store.PageTree, prefix string) {
		for i, p := range pages {
			last := i == len(pages)-1
			connector, childPrefix := branch(last)
			fmt.Fprintf(w, "%s%s%s\n", prefix, connector, p.Page.Title)
			printForest(p.Children, prefix+childPrefix)
		}
	}

	for i, e := range entries {
		last := i == len(entries)-1
		connector, childPrefix := branch(last)
		fmt.Fprintf(w, "%s%s\n", connector, e.label)
		printForest(e.children, childPrefix)
	}
}

func branch(last bool) (connector, childPrefix string) {
	if last {
		return "└── ", "    "
	}
	return "├── ", "│   "
}

// Tabs prints the open tab list with the active tab marked.
func Tabs(w io.Writer, tabs []session.Tab) {
	if len(tabs) == 0 {
		fmt.Fprintln(w, "no open tabs")
		return
	}
	for i, t := range tabs {
		marker := " "
		if t.Active {
			marker = "*"
		}
		dirty := ""
		if t.Dirty {
			dirty = " +"
		}
		label := t.Title
		if label == "" {
			label = string(t.Kind)
		}
		fmt.Fprintf(w, "%s %2d  %s  %s%s\n", marker, i, t.ID, label, dirty)
	}
}

// Results prints search hits with snippets.
func Results(w io.Writer, results []search.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "%s  %s\n", r.Page.ID, r.Page.Title)
		if r.Snippet != "" {
			fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
		}
	}
}

// Links prints page links with direction arrows relative to pageID.
func Links(w io.Writer, pageID string, links []store.PageLink) {
	for _, l := range links {
		text := ""
		if l.Text != "" {
			text = "  " + fmt.Sprintf("%q", l.Text)
		}
		if l.SourceID == pageID {
			fmt.Fprintf(w, "%s  -> %s  (%s)%s\n", l.ID, l.TargetID, l.Type, text)
		} else {
			fmt.Fprintf(w, "%s  <- %s  (%s)%s\n", l.ID, l.SourceID, l.Type, text)
		}
	}
}

// Stats prints workspace statistics.
func Stats(w io.Writer, st *store.Stats) {
	fmt.Fprintf(w, "Notebooks: %d\n", st.Notebooks)
	fmt.Fprintf(w, "Sections:  %d\n", st.Sections)
	fmt.Fprintf(w, "Pages:     %d (%d sub-pages)\n", st.Pages, st.SubPages)
	fmt.Fprintf(w, "Links:     %d\n", st.Links)
	if st.OldestNotebook > 0 {
		fmt.Fprintf(w, "Oldest notebook: %s\n", time.Unix(st.OldestNotebook, 0).Format("2006-01-02"))
	}
	if st.NewestPage > 0 {
		fmt.Fprintf(w, "Last page write: %s\n", time.Unix(st.NewestPage, 0).Format("2006-01-02 15:04"))
	}
}
