// Package mcp implements the Model Context Protocol server, exposing
// devise operations to LLMs. This enables AI assistants to browse
// notebooks, read and create pages, follow links and search through a
// standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/devise/internal/repo"
	"github.com/jpl-au/devise/internal/workspace"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when no workspace exists.
// The LLM should call devise_init to create one before using other tools.
const ErrNotInitialised = "workspace not initialised - call devise_init first"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other
// MCP clients.
//
// Design: The server starts successfully even if no workspace exists.
// This allows LLMs to call devise_init to create one, rather than
// failing with an opaque error. Tools that require a workspace return
// ErrNotInitialised with clear guidance.
func Serve(ctx context.Context) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{}

	ws, err := workspace.Open(ctx)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open workspace", "error", err)
		return err
	}
	if err == nil {
		h.ws = ws
		defer ws.Close(ctx)
	} else {
		slog.Info("devise not initialised, starting in uninitialised mode - call devise_init to create workspace")
	}

	s := server.NewMCPServer(
		"devise",
		Version,
		server.WithToolCapabilities(true),
	)

	registerTools(s, h)

	slog.Info("devise MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the workspace.
// The ws field may be nil if no workspace has been initialised.
type handlers struct {
	ws *workspace.Workspace
}

// requireInit returns an error result if no workspace is open. Tools
// that need one should call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.ws == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerTools exposes devise operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing workspace
	s.AddTool(
		mcp.NewTool("devise_init",
			mcp.WithDescription("Initialise a new devise workspace in the current directory. Call this first if other tools return 'workspace not initialised'."),
		),
		h.initWorkspace,
	)

	s.AddTool(
		mcp.NewTool("devise_notebooks",
			mcp.WithDescription("List all notebooks in order."),
		),
		h.listNotebooks,
	)

	s.AddTool(
		mcp.NewTool("devise_hierarchy",
			mcp.WithDescription("Get the full ordered tree of a notebook: sections, pages and sub-pages."),
			mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook id")),
		),
		h.getHierarchy,
	)

	s.AddTool(
		mcp.NewTool("devise_page",
			mcp.WithDescription("Read a page: title, content, tags and position."),
			mcp.WithString("page_id", mcp.Required(), mcp.Description("Page id")),
		),
		h.readPage,
	)

	s.AddTool(
		mcp.NewTool("devise_create_page",
			mcp.WithDescription("Create a page in a notebook, optionally inside a section or under a parent page."),
			mcp.WithString("notebook_id", mcp.Required(), mcp.Description("Notebook id")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
			mcp.WithString("content", mcp.Description("Page content")),
			mcp.WithString("section_id", mcp.Description("Section to place the page in")),
			mcp.WithString("parent_page_id", mcp.Description("Parent page for a sub-page")),
		),
		h.createPage,
	)

	s.AddTool(
		mcp.NewTool("devise_search",
			mcp.WithDescription("Search pages by title, content or tags. Returns hits with snippets."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("notebook_id", mcp.Description("Limit to one notebook")),
			mcp.WithString("tag", mcp.Description("Require a tag")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
		),
		h.searchPages,
	)

	s.AddTool(
		mcp.NewTool("devise_links",
			mcp.WithDescription("List a page's links: outgoing links and backlinks."),
			mcp.WithString("page_id", mcp.Required(), mcp.Description("Page id")),
		),
		h.pageLinks,
	)

	s.AddTool(
		mcp.NewTool("devise_link",
			mcp.WithDescription("Create a directed link between two pages."),
			mcp.WithString("source_id", mcp.Required(), mcp.Description("Source page id")),
			mcp.WithString("target_id", mcp.Required(), mcp.Description("Target page id")),
			mcp.WithString("text", mcp.Description("Display text for the link")),
			mcp.WithString("type", mcp.Description("Link type: manual, auto, reference or related (default manual)")),
		),
		h.createLink,
	)

	s.AddTool(
		mcp.NewTool("devise_suggest_tags",
			mcp.WithDescription("Suggest tags for a page based on its content."),
			mcp.WithString("page_id", mcp.Required(), mcp.Description("Page id")),
		),
		h.suggestTags,
	)

	s.AddTool(
		mcp.NewTool("devise_stats",
			mcp.WithDescription("Workspace statistics: notebook, section, page and link counts."),
		),
		h.getStats,
	)
}
