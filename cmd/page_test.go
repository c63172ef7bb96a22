package cmd

import (
	"strings"
	"testing"
)

func TestPage(t *testing.T) {
	t.Run("create and cat", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Notes", "-c", "the content body")

		out := env.run("page", "cat", page)
		env.contains(out, "the content body")
	})

	t.Run("write replaces content", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Notes", "-c", "before")

		env.run("page", "write", page, "after")
		out := env.run("page", "cat", page)
		env.contains(out, "after")
		if strings.Contains(out, "before") {
			t.Errorf("old content survived write:\n%s", out)
		}
	})

	t.Run("write from stdin", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Notes")

		env.runStdin("piped in\n", "page", "write", page)
		out := env.run("page", "cat", page)
		env.contains(out, "piped in")
	})

	t.Run("write with diff", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Notes", "-c", "old line")

		out := env.run("page", "write", page, "new line", "--diff")
		env.contains(out, "--- current")
		env.contains(out, "+++ new")
		env.contains(out, "- old")
		env.contains(out, "+ new")
	})

	t.Run("sub-pages and move", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		parent := env.page(nb, "Parent")
		child := env.page(nb, "Child", "--parent", parent)

		// Move the child to the notebook root
		env.run("page", "mv", child)
		out := env.run("notebook", "show", nb)
		env.contains(out, "Child")
	})

	t.Run("move cycle rejected", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		a := env.page(nb, "A")
		b := env.page(nb, "B", "--parent", a)

		_, err := env.runErr("page", "mv", a, "--parent", b)
		if err == nil {
			t.Error("cyclic move should fail")
		}
	})

	t.Run("tags", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Tagged", "-t", "Work, ideas")

		out := env.run("page", "ls", nb, "-o", "json")
		env.contains(out, `"work"`)
		env.contains(out, `"ideas"`)
		_ = page
	})

	t.Run("rm cascades to sub-pages", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		parent := env.page(nb, "Parent")
		env.page(nb, "Child", "--parent", parent)

		env.run("page", "rm", parent)
		out := env.run("page", "ls", nb)
		if strings.Contains(out, "Parent") || strings.Contains(out, "Child") {
			t.Errorf("cascade delete left pages behind:\n%s", out)
		}
	})

	t.Run("suggest-tags", func(t *testing.T) {
		env := newTestEnv(t)

		nb := env.notebook("NB")
		page := env.page(nb, "Deploys", "-c", "deployment pipeline deployment runbook")

		out := env.run("page", "suggest-tags", page)
		env.contains(out, "deployment")
	})
}

func TestPage_Errors(t *testing.T) {
	t.Run("unknown notebook", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.runErr("page", "create", "missing", "Title")
		if err == nil {
			t.Error("create in unknown notebook should fail")
		}
	})

	t.Run("section outside notebook", func(t *testing.T) {
		env := newTestEnv(t)

		nb1 := env.notebook("NB1")
		nb2 := env.notebook("NB2")
		sec := env.id(env.run("section", "create", nb1, "S"))

		_, err := env.runErr("page", "create", nb2, "Stray", "--section", sec)
		if err == nil {
			t.Error("create with foreign section should fail")
		}
	})
}
