package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbonduro/snapback/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list history", http.StatusInternalServerError)
		s.logger.Error("list history failed", "error", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"Records": records, "HistoryOn": true},
		"base.html", "pages/history.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}

	rec, err := s.history.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("get analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to get analysis"}, s.logger)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, apiResponse{Error: "analysis not found"}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec, s.logger)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.NotFound(w, r)
		return
	}

	id := r.PathValue("id")
	if err := s.history.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Error: err.Error()}, s.logger)
			return
		}
		s.logger.Error("delete analysis failed", "analysis_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to delete analysis"}, s.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
