package cmd

import (
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	t.Run("finds pages by content with snippet", func(t *testing.T) {
		env := newTestEnv(t)
		nb := env.notebook("Work")
		pg := env.page(nb, "Release checklist")
		env.run("page", "write", pg, "tag the release, then deploy to staging")
		env.page(nb, "Groceries")

		out := env.run("search", "deploy")
		env.contains(out, pg)
		env.contains(out, "Release checklist")
		env.contains(out, "deploy to staging")
		if strings.Contains(out, "Groceries") {
			t.Errorf("Search(deploy) matched unrelated page: %q", out)
		}
	})

	t.Run("notebook filter scopes results", func(t *testing.T) {
		env := newTestEnv(t)
		nb1 := env.notebook("Work")
		nb2 := env.notebook("Home")
		env.page(nb1, "Meeting notes")
		env.page(nb2, "Meeting plan")

		out := env.run("search", "meeting", "--notebook", nb1)
		env.contains(out, "Meeting notes")
		if strings.Contains(out, "Meeting plan") {
			t.Errorf("Search(--notebook) leaked other notebook: %q", out)
		}
	})

	t.Run("tag filter requires the tag", func(t *testing.T) {
		env := newTestEnv(t)
		nb := env.notebook("Work")
		env.page(nb, "Retro notes", "--tags", "retro")
		env.page(nb, "Retro snacks")

		out := env.run("search", "retro", "--tag", "retro")
		env.contains(out, "Retro notes")
		if strings.Contains(out, "Retro snacks") {
			t.Errorf("Search(--tag) matched untagged page: %q", out)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		env := newTestEnv(t)
		nb := env.notebook("Work")
		for _, title := range []string{"Plan A", "Plan B", "Plan C"} {
			env.page(nb, title)
		}

		out := env.run("search", "plan", "--limit", "1")
		if n := strings.Count(out, "Plan "); n != 1 {
			t.Errorf("Search(--limit 1) returned %d results, want 1\noutput: %q", n, out)
		}
	})

	t.Run("history records queries across invocations", func(t *testing.T) {
		env := newTestEnv(t)
		nb := env.notebook("Work")
		env.page(nb, "Notes")

		env.run("search", "first")
		env.run("search", "second")
		env.run("search", "first")

		out := env.run("search", "--history")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("History() = %d entries, want 2\noutput: %q", len(lines), out)
		}
		if lines[0] != "first" || lines[1] != "second" {
			t.Errorf("History() = %v, want [first second]", lines)
		}
	})

	t.Run("saved search runs with its filters", func(t *testing.T) {
		env := newTestEnv(t)
		nb := env.notebook("Work")
		env.page(nb, "Weekly review", "--tags", "review")
		env.page(nb, "Weekly shopping")

		env.run("search", "weekly", "--tag", "review", "--save", "reviews")

		out := env.run("search", "--saved", "reviews")
		env.contains(out, "Weekly review")
		if strings.Contains(out, "Weekly shopping") {
			t.Errorf("Search(--saved) ignored saved tag filter: %q", out)
		}
	})
}

func TestSearch_Errors(t *testing.T) {
	t.Run("no query and no mode flag", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.runErr("search")
		if err == nil {
			t.Error("Search() = nil, want error")
		}
	})

	t.Run("unknown saved search", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.runErr("search", "--saved", "nope")
		if err == nil {
			t.Error("Search(--saved nope) = nil, want error")
		}
	})
}
