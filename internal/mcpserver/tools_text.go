package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTextTools() {
	s.mcp.AddTool(mcp.NewTool("replace_text",
		mcp.WithDescription("Replace text in a note's body. Fails if the search text does not occur."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("search", mcp.Required(), mcp.Description("Exact text to find")),
		mcp.WithString("replace", mcp.Required(), mcp.Description("Replacement text")),
		mcp.WithBoolean("replace_all", mcp.Description("Replace every occurrence instead of the first")),
	), s.replaceText)

	s.mcp.AddTool(mcp.NewTool("insert_text",
		mcp.WithDescription("Insert text before or after the first line matching a pattern. "+
			"Exactly one of before/after must be set; lines match ignoring surrounding whitespace."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to insert")),
		mcp.WithString("before", mcp.Description("Line to insert before")),
		mcp.WithString("after", mcp.Description("Line to insert after")),
	), s.insertText)
}

func (s *Server) replaceText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	search, err := req.RequireString("search")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	replace, err := req.RequireString("replace")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Replace(name, search, replace, req.GetBool("replace_all", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) insertText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Insert(name, text, req.GetString("before", ""), req.GetString("after", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}
