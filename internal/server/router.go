package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mwiater/metricview/internal/logging"
)

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	// UI
	r.Get("/", s.pageHandler)
	r.Post("/toggle", s.toggleFormHandler)
	r.Post("/reset", s.resetFormHandler)
	r.Get("/chart", s.chartPageHandler)
	r.Get("/chart.svg", s.chartSVGHandler)
	r.Get("/chart.png", s.chartPNGHandler)

	// Health
	r.Get("/healthz", healthzHandler)

	// API
	r.Get("/api/v1/tree", s.treeHandler)
	r.Get("/api/v1/selection", s.selectionHandler)
	r.Get("/api/v1/summary", s.summaryHandler)
	r.Post("/api/v1/nodes/{id}/{action}", s.nodeActionHandler)
	r.Post("/api/v1/reset", s.resetHandler)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.LogRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
