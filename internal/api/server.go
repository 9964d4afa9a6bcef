package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/metrics"
	"github.com/vytor/rebux/internal/services"
)

// Pinger is the readiness dependency, normally the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	GameService  services.GameService
	VideoService services.VideoService
	Templates    *template.Template
	Metrics      *metrics.Metrics
	DB           Pinger
	SessionTTL   time.Duration

	// AdminCredentials guards the level listing. An empty map rejects everyone.
	AdminCredentials map[string]string
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
