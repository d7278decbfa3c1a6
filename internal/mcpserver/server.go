// Package mcpserver exposes the vault operations as MCP (Model Context
// Protocol) tools over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/validate"
)

// Server wraps the MCP server with the vault tool set.
type Server struct {
	mcp *server.MCPServer
	ops *ops.Operations

	contextOnce sync.Once
}

// New creates an MCP server with all vault tools registered.
func New(o *ops.Operations) *Server {
	s := &Server{ops: o}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(baseInstructions),
	)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note, including frontmatter."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name without the .md extension")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Content is the Markdown body; frontmatter is an optional JSON object."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name without the .md extension")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body")),
		mcp.WithString("frontmatter", mcp.Description("Optional frontmatter as a JSON object")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the body of an existing note, keeping its frontmatter."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New Markdown body")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("append_note",
		mcp.WithDescription("Append text to the end of a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to append")),
	), s.appendNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Move a note to trash and rewrite wikilinks in referring notes to '<name> (deleted)'."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithBoolean("dry_run", mcp.Description("Preview without changing anything")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("rename_note",
		mcp.WithDescription("Rename a note and rewrite wikilinks in all referring notes."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Current note name")),
		mcp.WithString("new_name", mcp.Required(), mcp.Description("New note name")),
		mcp.WithBoolean("dry_run", mcp.Description("Preview without changing anything")),
	), s.renameNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes. Modes: name (exact), name_partial, content, tag. "+
			"In tag mode the query may be a comma-separated list combined with tag_logic."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithString("mode", mcp.Description("name | name_partial | content | tag (default name_partial)")),
		mcp.WithString("tag_logic", mcp.Description("and | or for multi-tag queries (default or)")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note names, sorted, with optional pagination."),
		mcp.WithNumber("offset", mcp.Description("Number of names to skip")),
		mcp.WithNumber("limit", mcp.Description("Maximum names to return (default 100)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_links",
		mcp.WithDescription("Get a note's wikilink graph edges."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("direction", mcp.Description("out | in | both (default both)")),
	), s.getLinks)

	s.mcp.AddTool(mcp.NewTool("find_broken_links",
		mcp.WithDescription("List wikilinks across the vault whose target note does not exist."),
	), s.findBrokenLinks)

	s.mcp.AddTool(mcp.NewTool("get_note_metadata",
		mcp.WithDescription("Get a note's frontmatter and tags without its body."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
	), s.getNoteMetadata)

	s.mcp.AddTool(mcp.NewTool("set_frontmatter",
		mcp.WithDescription("Set one frontmatter key on a note. Value is parsed as JSON, falling back to a plain string."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Frontmatter key")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value (JSON or plain string)")),
	), s.setFrontmatter)

	s.mcp.AddTool(mcp.NewTool("add_tag",
		mcp.WithDescription("Add a tag to a note. The tag must already exist somewhere in the vault."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to add")),
	), s.addTag)

	s.mcp.AddTool(mcp.NewTool("remove_tag",
		mcp.WithDescription("Remove a tag from a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to remove")),
	), s.removeTag)

	s.registerSectionTools()
	s.registerTextTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// result renders v as indented JSON and prepends the vault context exactly
// once per session.
func (s *Server) result(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return s.text(string(out))
}

func (s *Server) text(msg string) *mcp.CallToolResult {
	var prefix string
	s.contextOnce.Do(func() {
		prefix = s.vaultContext()
	})
	if prefix != "" {
		return mcp.NewToolResultText(prefix + "\n---\n" + msg)
	}
	return mcp.NewToolResultText(msg)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.ops.Read(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.text(content), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var fm *frontmatter.Map
	if raw := req.GetString("frontmatter", ""); raw != "" {
		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid frontmatter JSON: %v", err)), nil
		}
		fm = frontmatter.New()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fm.Set(k, fields[k])
		}
		if tags := frontmatter.Tags(fm); len(tags) > 0 {
			if err := s.ops.ValidateTags(tags); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.CheckTagRules(tags, name, fm); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
	}
	res, err := s.ops.Create(name, content, fm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Update(name, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) appendNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Append(name, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Delete(name, req.GetBool("dry_run", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) renameNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newName, err := req.RequireString("new_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Rename(name, newName, req.GetBool("dry_run", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := req.GetString("mode", string(ops.SearchNamePartial))
	var results []ops.SearchResult
	if mode == string(ops.SearchTag) {
		results, err = s.ops.SearchTags(query, req.GetString("tag_logic", "or"))
	} else {
		results, err = s.ops.Search(query, ops.SearchMode(mode))
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(results), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.ops.Vault().ListNotes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names := make([]string, 0, len(notes))
	for _, n := range notes {
		names = append(names, n.Name)
	}
	sort.Strings(names)

	offset := req.GetInt("offset", 0)
	limit := req.GetInt("limit", 100)
	if offset < 0 {
		offset = 0
	}
	if offset > len(names) {
		offset = len(names)
	}
	end := offset + limit
	if limit <= 0 || end > len(names) {
		end = len(names)
	}
	return s.result(map[string]any{
		"names": names[offset:end],
		"total": len(names),
	}), nil
}

func (s *Server) getLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.Links(name, ops.LinkDirection(req.GetString("direction", "both")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) findBrokenLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	links, err := s.ops.FindBrokenLinks()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(links) == 0 {
		return s.text("no broken links found"), nil
	}
	return s.result(links), nil
}

func (s *Server) getNoteMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.ops.Vault().GetNote(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields := make(map[string]any)
	for pair := note.Frontmatter.Oldest(); pair != nil; pair = pair.Next() {
		fields[pair.Key] = pair.Value
	}
	return s.result(map[string]any{
		"name":        note.Name,
		"path":        note.Path,
		"tags":        note.Tags,
		"frontmatter": fields,
	}), nil
}

func (s *Server) setFrontmatter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	if key == "tags" {
		list, ok := value.([]any)
		if !ok {
			return mcp.NewToolResultError("tags must be a JSON list of strings"), nil
		}
		tags := make([]string, 0, len(list))
		for _, item := range list {
			tags = append(tags, fmt.Sprintf("%v", item))
		}
		if err := s.ops.ValidateTags(tags); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := s.ops.FrontmatterSet(name, key, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.text(fmt.Sprintf("set %s on %s", key, name)), nil
}

func (s *Server) addTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.AddTag(name, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}

func (s *Server) removeTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.ops.RemoveTag(name, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.result(res), nil
}
