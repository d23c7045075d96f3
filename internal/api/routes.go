package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.Metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(visitorMiddleware)
		if s.RateLimitRPS > 0 {
			r.Use(newRateLimiter(s.RateLimitRPS, s.RateLimitBurst).middleware)
		}

		r.Get("/", s.handleIndex)
		r.Post("/quizzes/{index}", s.handleSelectQuiz)
		r.Post("/options/{index}", s.handleSelectOption)
		r.Post("/submit", s.handleSubmit)
		r.Post("/restart", s.handleRestart)
		r.Post("/theme", s.handleToggleTheme)
		r.Post("/sun", s.handleSun)
		r.Get("/results", s.handleResults)
		r.Get("/api/view", s.handleAPIView)
	})

	return r
}
