package api

import (
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/sse"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = string(ops.SearchNamePartial)
	}
	results, err := s.ops.Search(q.Get("q"), ops.SearchMode(mode))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

func (s *Server) handleSearchTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logic := q.Get("logic")
	if logic == "" {
		logic = "or"
	}
	results, err := s.ops.SearchTags(q.Get("q"), logic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

func (s *Server) handleFulltext(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "full-text search not configured"})
		return
	}
	q := r.URL.Query()
	limit := 20
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	results, err := s.search.Query(q.Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

func (s *Server) handleBrokenLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.ops.FindBrokenLinks()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"broken_links": links, "count": len(links)})
}

func (s *Server) handleAllTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.ops.AllTags()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags, "count": len(tags)})
}

type batchRenameRequest struct {
	Renames []ops.RenamePair `json:"renames"`
	DryRun  bool             `json:"dry_run,omitempty"`
}

func (s *Server) handleBatchRename(w http.ResponseWriter, r *http.Request) {
	var req batchRenameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	results, err := s.ops.BatchRename(req.Renames, req.DryRun)
	if !req.DryRun {
		for _, res := range results {
			s.publishRename(res.OldName, res.NewName)
		}
	}
	if err != nil {
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"results": results,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type batchDeleteRequest struct {
	Names  []string `json:"names"`
	DryRun bool     `json:"dry_run,omitempty"`
}

func (s *Server) handleBatchDelete(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	results, err := s.ops.BatchDelete(req.Names, req.DryRun)
	if !req.DryRun {
		for _, res := range results {
			s.publish(sse.EventNoteDeleted, res.Name)
		}
	}
	if err != nil {
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"results": results,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
