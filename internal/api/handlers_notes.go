package api

import (
	"net/http"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/sse"
)

func noteName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

type noteSummary struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Tags []string `json:"tags,omitempty"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.ops.Vault().ListNotes()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]noteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteSummary{Name: n.Name, Path: n.Path, Tags: n.Tags})
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": out, "count": len(out)})
}

type createNoteRequest struct {
	Name        string         `json:"name"`
	Content     string         `json:"content"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var fm *frontmatter.Map
	if len(req.Frontmatter) > 0 {
		fm = frontmatter.New()
		keys := make([]string, 0, len(req.Frontmatter))
		for k := range req.Frontmatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fm.Set(k, req.Frontmatter[k])
		}
	}
	res, err := s.ops.Create(req.Name, req.Content, fm)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteCreated, req.Name)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleReadNote(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	content, err := s.ops.Read(name)
	if err != nil {
		writeError(w, err)
		return
	}
	note, err := s.ops.Vault().GetNote(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    note.Name,
		"path":    note.Path,
		"tags":    note.Tags,
		"content": content,
	})
}

type updateNoteRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.Update(name, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

type appendNoteRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAppendNote(w http.ResponseWriter, r *http.Request) {
	var req appendNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.Append(name, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	dryRun := r.URL.Query().Get("dry_run") == "true"
	res, err := s.ops.Delete(name, dryRun)
	if err != nil {
		writeError(w, err)
		return
	}
	if !dryRun {
		s.publish(sse.EventNoteDeleted, name)
	}
	writeJSON(w, http.StatusOK, res)
}

type renameNoteRequest struct {
	NewName string `json:"new_name"`
	DryRun  bool   `json:"dry_run,omitempty"`
}

func (s *Server) handleRenameNote(w http.ResponseWriter, r *http.Request) {
	var req renameNoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.Rename(name, req.NewName, req.DryRun)
	if err != nil {
		writeError(w, err)
		return
	}
	if !req.DryRun {
		s.publishRename(name, req.NewName)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHeadings(w http.ResponseWriter, r *http.Request) {
	headings, err := s.ops.GetHeadings(noteName(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"headings": headings})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = "both"
	}
	res, err := s.ops.Links(noteName(r), ops.LinkDirection(direction))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
