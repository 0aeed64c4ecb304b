// Package server exposes the converter over HTTP: library discovery,
// single conversions, multi-library comparisons, batch runs, chunking and
// task retrieval.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AKSarav/pdfstract"
)

// Server wires HTTP handlers to a shared [pdfstract.Converter].
type Server struct {
	conv *pdfstract.Converter
	log  *slog.Logger

	// maxUploadBytes bounds multipart upload size.
	maxUploadBytes int64
}

// New creates a Server around conv.
func New(conv *pdfstract.Converter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		conv:           conv,
		log:            log,
		maxUploadBytes: 50 << 20, // 50 MB
	}
}

// Router builds the chi router with logging, recovery and CORS middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/libraries", s.handleLibraries)
		r.Get("/chunkers", s.handleChunkers)
		r.Post("/convert", s.handleConvert)
		r.Post("/compare", s.handleCompare)
		r.Post("/batch", s.handleBatch)
		r.Post("/chunk", s.handleChunk)
		r.Get("/tasks/{taskID}", s.handleGetTask)
		r.Delete("/tasks/{taskID}", s.handleDeleteTask)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
