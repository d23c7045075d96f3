package api

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/metrics"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Sessions       services.SessionService
	Preferences    services.PreferenceService
	Attempts       services.AttemptService
	Quizzes        []models.Quiz
	DB             Pinger
	Templates      *template.Template
	Static         fs.FS
	Metrics        *metrics.Metrics
	RateLimitRPS   float64
	RateLimitBurst int
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes the template into a buffer first so a template error
// never leaves a half-written page behind.
func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["theme"]; !ok {
		data["theme"] = models.ThemeLight
	}

	log := logger.FromContext(r.Context())
	var buf bytes.Buffer
	if err := s.Templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write response: %v", err)
	}
}
