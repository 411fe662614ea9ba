package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/paramdocs/internal/compose"
	"github.com/dgallion1/paramdocs/internal/config"
	"github.com/dgallion1/paramdocs/internal/page"
	"github.com/dgallion1/paramdocs/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the parameter documentation site.
type Server struct {
	router   chi.Router
	composer *compose.Composer
	pages    page.Store
	stats    *stats.RenderStats
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(composer *compose.Composer, pages page.Store, st *stats.RenderStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		composer: composer,
		pages:    pages,
		stats:    st,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/parameters/", http.StatusMovedPermanently)
	})

	// Documentation pages.
	r.Get("/parameters", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/parameters/", http.StatusMovedPermanently)
	})
	r.Get("/parameters/", s.handleIndex)
	r.Get("/parameters/{pageID}", s.handlePage)

	// JSON API, authenticated when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.DocsAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocsAPIKey, s.log))
		}

		r.Get("/api/pages", s.handleListPages)
		r.Get("/api/pages/{pageID}", s.handleGetPage)
		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
