package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erickhangati/mapty/internal/mapview"
	"github.com/erickhangati/mapty/internal/tracker"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	session *tracker.Session
	m       *mapview.Map
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. When apiKey is set,
// every mutating route requires it in the X-API-Key header.
func New(session *tracker.Session, m *mapview.Map, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		session: session,
		m:       m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(AccessLog(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Get("/map", s.handleMap)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)

		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/map/click", s.handleMapClick)
			r.Post("/map/fit", s.handleFit)
			r.Post("/form", s.handleSubmitForm)
			r.Delete("/form", s.handleCloseForms)
			r.Post("/workouts/{id}/edit", s.handleOpenEdit)
			r.Put("/workouts/{id}", s.handleSubmitEdit)
			r.Post("/workouts/{id}/focus", s.handleFocus)
			r.Delete("/workouts/{id}", s.handleDelete)
			r.Delete("/workouts", s.handleDeleteAll)
			r.Post("/error/dismiss", s.handleDismissError)
			r.Post("/reset", s.handleReset)
		})
	})
}

// Mount attaches an extra handler, such as metrics or MCP, at pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// SetFrontend mounts a static client filesystem.
// Unmatched routes serve index.html for client-side routing.
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
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
