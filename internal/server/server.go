package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/coroscal/internal/convert"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	conv   *convert.Converter
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(conv *convert.Converter, log *slog.Logger) *Server {
	s := &Server{
		conv:   conv,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/healthz", s.handleHealthz)
	s.router.Post("/api/v1/preview", s.handlePreview)
	s.router.Post("/api/v1/calendar", s.handleCalendar)
}

// SetFrontend mounts the embedded frontend filesystem. Unmatched routes
// serve index.html.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
