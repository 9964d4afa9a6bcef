package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handlePlay)
		r.Post("/", s.handleGuess)
		r.Get("/win", s.handleWin)
		r.Get("/api/state", s.handleState)
	})

	r.Get("/generate-levels", s.handleGenerateLevels)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BasicAuth("rebux-admin", s.AdminCredentials))
		r.Get("/admin/levels", s.handleLevels)
		r.Get("/api/levels", s.handleLevelsJSON)
	})

	r.Get("/youtube", s.handleYouTube)
	r.Get("/youtube/download", s.handleYouTubeDownload)
	r.Get("/api/youtube-search", s.handleYouTubeSearchAPI)
	r.Post("/api/youtube-download", s.handleYouTubeDownloadAPI)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}
