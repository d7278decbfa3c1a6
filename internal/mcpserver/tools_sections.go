package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSectionTools() {
	s.mcp.AddTool(mcp.NewTool("get_headings",
		mcp.WithDescription("List the headings of a note with their levels and line numbers."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
	), s.getHeadings)

	s.mcp.AddTool(mcp.NewTool("read_section",
		mcp.WithDescription("Read the text under a heading, up to the next heading of equal or higher level. "+
			"Heading may be given with its # prefix for an exact match, or bare to match any level."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Target heading")),
	), s.readSection)

	s.mcp.AddTool(mcp.NewTool("append_section",
		mcp.WithDescription("Append text at the end of a section, before the next heading."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Target heading")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to append")),
	), s.appendSection)

	s.mcp.AddTool(mcp.NewTool("update_section",
		mcp.WithDescription("Replace the body of a section, keeping its heading line."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Target heading")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New section body")),
	), s.updateSection)

	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("Delete a section including its heading line."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Target heading")),
	), s.deleteSection)
}

func (s *Server) sectionArgs(req mcp.CallToolRequest) (name, heading string, errResult *mcp.CallToolResult) {
	name, err := req.RequireString("name")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	heading, err = req.RequireString("heading")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return name, heading, nil
}

func (s *Server) getHeadings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	headings, err := s.ops.GetHeadings(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(headings), nil
}

func (s *Server) readSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, heading, bad := s.sectionArgs(req)
	if bad != nil {
		return bad, nil
	}
	content, err := s.ops.ReadSection(name, heading)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.text(content), nil
}

func (s *Server) appendSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, heading, bad := s.sectionArgs(req)
	if bad != nil {
		return bad, nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.AppendSection(name, heading, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) updateSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, heading, bad := s.sectionArgs(req)
	if bad != nil {
		return bad, nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.UpdateSection(name, heading, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) deleteSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, heading, bad := s.sectionArgs(req)
	if bad != nil {
		return bad, nil
	}
	if err := s.ops.DeleteSection(name, heading); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.text(fmt.Sprintf("deleted section %q from %s", heading, name)), nil
}
