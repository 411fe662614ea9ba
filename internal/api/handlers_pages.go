package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/paramdocs/internal/compose"
	"github.com/dgallion1/paramdocs/internal/fragment"
	"github.com/dgallion1/paramdocs/internal/page"
	"github.com/dgallion1/paramdocs/internal/stats"
	"github.com/go-chi/chi/v5"
)

// legacySuffixes are accepted on page URLs so old links keep working.
var legacySuffixes = []string{".php", ".html", ".htm"}

// statusClientClosedRequest is logged when the client disconnects before
// the page is ready. Nothing reads it.
const statusClientClosedRequest = 499

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := pageIDFromPath(chi.URLParam(r, "pageID"))
	start := time.Now()
	doc, err := s.composer.Render(r.Context(), id)
	s.writeDocument(w, r, doc, err, start)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	doc, err := s.composer.RenderIndex(r.Context())
	s.writeDocument(w, r, doc, err, start)
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, doc *compose.Document, err error, start time.Time) {
	if err != nil {
		switch {
		case r.Context().Err() != nil:
			s.record(start, stats.OutcomeCanceled)
			s.log.Debug("client went away", "path", r.URL.Path, "error", err)
			w.WriteHeader(statusClientClosedRequest)
		case errors.Is(err, page.ErrNotFound):
			s.record(start, stats.OutcomeNotFound)
			http.Error(w, "page not found", http.StatusNotFound)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.record(start, stats.OutcomeError)
			s.log.Warn("fragment load interrupted", "path", r.URL.Path, "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, fragment.ErrFragmentMissing):
			s.record(start, stats.OutcomeError)
			s.log.Error("fragment missing", "path", r.URL.Path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		default:
			s.record(start, stats.OutcomeError)
			s.log.Error("render failed", "path", r.URL.Path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	s.record(start, stats.OutcomeOK)

	w.Header().Set("ETag", doc.ETag)
	if etagMatches(r.Header.Get("If-None-Match"), doc.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc.Body)
}

func (s *Server) record(start time.Time, outcome stats.Outcome) {
	if s.stats != nil {
		s.stats.Record(time.Since(start), outcome)
	}
}

func pageIDFromPath(segment string) string {
	for _, suffix := range legacySuffixes {
		if strings.HasSuffix(segment, suffix) {
			return strings.TrimSuffix(segment, suffix)
		}
	}
	return segment
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
