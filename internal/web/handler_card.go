package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/snapback/internal/card"
	"github.com/vbonduro/snapback/internal/complaint"
)

// handleCard renders the suggested post passed in ?text= as a PNG share card.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}

	data, err := card.Render(complaint.Handle, text)
	if err != nil {
		http.Error(w, "failed to render card", http.StatusInternalServerError)
		s.logger.Error("render card failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write card failed", "error", err)
	}
}
