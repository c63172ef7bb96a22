// tools_util.go provides helper functions for MCP tool parameter extraction.
//
// Design: We use permissive extraction (return default on error) rather than
// strict validation because MCP tools should be forgiving - an LLM omitting
// an optional parameter shouldn't cause cryptic errors. Returning sensible
// defaults keeps the tool usable rather than failing with type errors the
// LLM may struggle to interpret.

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/devise/internal/store"
)

// getString extracts a string parameter, returning the provided default
// if the parameter is missing or cannot be parsed as a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64,
// so we assert to float64 first and convert. Returns the default if the
// parameter is missing or not a number.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// jsonResult serialises any value as pretty-printed JSON and wraps it in
// an MCP text result for return to the LLM client. Errors during
// marshalling become MCP error results rather than Go errors, keeping
// the tool response pattern consistent.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
