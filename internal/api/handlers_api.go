package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/paramdocs/internal/page"
	"github.com/go-chi/chi/v5"
)

type pageSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Default string `json:"default"`
	URL     string `json:"url"`
}

// handleListPages lists every page definition.
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages := s.pages.List()
	out := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageSummary{
			ID:      p.ID,
			Title:   p.Title,
			Default: p.Default,
			URL:     "/parameters/" + p.ID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"pages": out})
}

// handleGetPage returns one page definition.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id := pageIDFromPath(chi.URLParam(r, "pageID"))
	p, err := s.pages.Get(id)
	if err != nil {
		if errors.Is(err, page.ErrNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleRenderStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "render stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"pages": len(s.pages.List()),
		"stats": s.stats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
