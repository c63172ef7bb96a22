// tools_hierarchy.go implements MCP tools for notebook, section and page
// access: workspace init, notebook listing, tree reads, page reads and
// page creation.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/repo"
	"github.com/jpl-au/devise/internal/store"
	"github.com/jpl-au/devise/internal/workspace"
)

// initWorkspace handles devise_init tool calls.
func (h *handlers) initWorkspace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ws != nil {
		return mcp.NewToolResultText("workspace already initialised"), nil
	}

	err := repo.Init(false, "")
	log.Event("mcp:init", "init").Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ws, err := workspace.Open(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.ws = ws
	return mcp.NewToolResultText("workspace initialised"), nil
}

// listNotebooks handles devise_notebooks tool calls.
func (h *handlers) listNotebooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}

	notebooks, err := h.ws.Hierarchy.ListNotebooks(ctx)
	log.Event("mcp:notebooks", "list").Detail("count", len(notebooks)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := make([]store.NotebookJSON, len(notebooks))
	for i := range notebooks {
		result[i] = notebooks[i].ToJSON()
	}
	return jsonResult(result)
}

// getHierarchy handles devise_hierarchy tool calls.
func (h *handlers) getHierarchy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError("notebook_id is required"), nil //nolint:nilerr
	}

	tree, err := h.ws.Hierarchy.GetHierarchy(ctx, notebookID)
	log.Event("mcp:hierarchy", "read").Entity("notebook", notebookID).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tree)
}

// readPage handles devise_page tool calls.
func (h *handlers) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	pageID, err := req.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("page_id is required"), nil //nolint:nilerr
	}

	p, err := h.ws.Hierarchy.GetPage(ctx, pageID)
	log.Event("mcp:page", "read").Entity("page", pageID).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p.ToJSON(true))
}

// createPage handles devise_create_page tool calls.
func (h *handlers) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	notebookID, err := req.RequireString("notebook_id")
	if err != nil {
		return mcp.NewToolResultError("notebook_id is required"), nil //nolint:nilerr
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil //nolint:nilerr
	}

	params := store.CreatePageParams{
		NotebookID: notebookID,
		Title:      title,
		Content:    getString(req, "content", ""),
	}
	if s := getString(req, "section_id", ""); s != "" {
		params.SectionID = &s
	}
	if p := getString(req, "parent_page_id", ""); p != "" {
		params.ParentPageID = &p
	}

	p, err := h.ws.Hierarchy.CreatePage(ctx, params)
	log.Event("mcp:create_page", "create").Entity("notebook", notebookID).Detail("title", title).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p.ToJSON(false))
}

// getStats handles devise_stats tool calls.
func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}

	st, err := h.ws.Store.GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}
