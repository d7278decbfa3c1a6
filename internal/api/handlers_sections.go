package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/sse"
)

func sectionParam(r *http.Request) string {
	return r.URL.Query().Get("heading")
}

func (s *Server) handleReadSection(w http.ResponseWriter, r *http.Request) {
	content, err := s.ops.ReadSection(noteName(r), sectionParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

type sectionWriteRequest struct {
	Heading string `json:"heading"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

func (s *Server) handleAppendSection(w http.ResponseWriter, r *http.Request) {
	var req sectionWriteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.AppendSection(name, req.Heading, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionWriteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.UpdateSection(name, req.Heading, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	if err := s.ops.DeleteSection(name, sectionParam(r)); err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetFrontmatter(w http.ResponseWriter, r *http.Request) {
	fm, err := s.ops.FrontmatterGet(noteName(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make(map[string]any)
	for pair := fm.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	if key := r.URL.Query().Get("key"); key != "" {
		value, ok := out[key]
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"frontmatter": out})
}

type setFrontmatterRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (s *Server) handleSetFrontmatter(w http.ResponseWriter, r *http.Request) {
	var req setFrontmatterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	if err := s.ops.FrontmatterSet(name, req.Key, req.Value); err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type addTagRequest struct {
	Tag string `json:"tag"`
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req addTagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.AddTag(name, req.Tag)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	res, err := s.ops.RemoveTag(name, chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Removed {
		s.publish(sse.EventNoteUpdated, name)
	}
	writeJSON(w, http.StatusOK, res)
}

type replaceRequest struct {
	Search     string `json:"search"`
	Replace    string `json:"replace"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.Replace(name, req.Search, req.Replace, req.ReplaceAll)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}

type insertRequest struct {
	Text   string `json:"text"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := noteName(r)
	res, err := s.ops.Insert(name, req.Text, req.Before, req.After)
	if err != nil {
		writeError(w, err)
		return
	}
	s.publish(sse.EventNoteUpdated, name)
	writeJSON(w, http.StatusOK, res)
}
