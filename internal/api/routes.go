package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/banks", s.handleListBanks)
		r.Get("/banks/{id}", s.handleGetBank)
		r.Post("/import", s.handleImport)
		r.Post("/questions/{id}/mark", s.handleToggleMark)

		r.Get("/metrics", s.handleMetricsOverview)
		r.Get("/metrics/series", s.handleMetricsSeries)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/", s.handleStartSession)
			r.Post("/answer", s.handleAnswer)
			r.Post("/continue", s.handleContinue)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/quit", s.handleQuit)
			r.Post("/restart", s.handleRestart)
		})
	})

	return r
}
