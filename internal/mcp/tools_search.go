// tools_search.go implements MCP tools for search, links and tag
// suggestions. Separated from tools_hierarchy.go because these read
// across pages rather than down the containment tree.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/store"
)

// searchPages handles devise_search tool calls.
func (h *handlers) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil //nolint:nilerr
	}

	opts := store.SearchOptions{
		NotebookID: getString(req, "notebook_id", ""),
		Tag:        getString(req, "tag", ""),
		Limit:      getInt(req, "limit", 20),
	}
	results, err := h.ws.Search.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

// pageLinks handles devise_links tool calls: both directions in one
// response so the LLM sees the page's full neighbourhood.
func (h *handlers) pageLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	pageID, err := req.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("page_id is required"), nil //nolint:nilerr
	}

	outgoing := h.ws.Graph.Outgoing(pageID)
	backlinks := h.ws.Graph.Backlinks(pageID)
	log.Event("mcp:links", "read").Entity("page", pageID).
		Detail("outgoing", len(outgoing)).Detail("backlinks", len(backlinks)).Write(nil)

	type linkSet struct {
		Outgoing  []store.LinkJSON `json:"outgoing"`
		Backlinks []store.LinkJSON `json:"backlinks"`
	}
	result := linkSet{
		Outgoing:  make([]store.LinkJSON, len(outgoing)),
		Backlinks: make([]store.LinkJSON, len(backlinks)),
	}
	for i := range outgoing {
		result.Outgoing[i] = outgoing[i].ToJSON()
	}
	for i := range backlinks {
		result.Backlinks[i] = backlinks[i].ToJSON()
	}
	return jsonResult(result)
}

// createLink handles devise_link tool calls.
func (h *handlers) createLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	sourceID, err := req.RequireString("source_id")
	if err != nil {
		return mcp.NewToolResultError("source_id is required"), nil //nolint:nilerr
	}
	targetID, err := req.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id is required"), nil //nolint:nilerr
	}
	text := getString(req, "text", "")
	typ := store.LinkType(getString(req, "type", string(store.LinkManual)))

	l, err := h.ws.Graph.Create(ctx, sourceID, targetID, text, typ)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(l.ToJSON())
}

// suggestTags handles devise_suggest_tags tool calls.
func (h *handlers) suggestTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r := h.requireInit(); r != nil {
		return r, nil
	}
	pageID, err := req.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("page_id is required"), nil //nolint:nilerr
	}

	p, err := h.ws.Hierarchy.GetPage(ctx, pageID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags := h.ws.Analyzer.SuggestTags(p.Title + "\n" + p.Content)
	return jsonResult(tags)
}
