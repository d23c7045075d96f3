package api

import (
	"net/http"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderQuiz(w, r, http.StatusOK)
}

func (s *Server) renderQuiz(w http.ResponseWriter, r *http.Request, status int) {
	log := logger.FromContext(r.Context())
	v, err := s.Sessions.View(r.Context(), visitorFromContext(r.Context()), themeHint(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("rendering %s screen", v.Screen)

	w.Header().Set("Accept-CH", colorSchemeHint)
	w.Header().Set("Cache-Control", "no-store")
	s.renderStatus(w, r, status, "pages/quiz.html", quizPage(v))
}

func quizPage(v view.View) pageData {
	data := pageData{
		"view":           v,
		"theme":          v.Theme,
		"header_visible": v.HeaderVisible,
		"title":          v.Title,
		"icon":           v.Icon,
	}
	if secs := v.RefreshSeconds(); secs > 0 {
		data["refresh"] = secs
	}
	return data
}

// handleAPIView returns the current projection as JSON.
func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	v, err := s.Sessions.View(r.Context(), visitorFromContext(r.Context()), themeHint(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, http.StatusOK, v)
}

// afterAction answers a successful state change: JSON clients get the new
// view, browsers are redirected back to the page.
func (s *Server) afterAction(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		s.handleAPIView(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelectQuiz(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err != nil {
		s.actionError(w, r, err)
		return
	}
	if err := s.Sessions.SelectQuiz(r.Context(), visitorFromContext(r.Context()), idx); err != nil {
		s.actionError(w, r, err)
		return
	}
	s.afterAction(w, r)
}

func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r, "index")
	if err != nil {
		s.actionError(w, r, err)
		return
	}
	if err := s.Sessions.SelectOption(r.Context(), visitorFromContext(r.Context()), idx); err != nil {
		s.actionError(w, r, err)
		return
	}
	s.afterAction(w, r)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Submit(r.Context(), visitorFromContext(r.Context())); err != nil {
		s.actionError(w, r, err)
		return
	}
	s.afterAction(w, r)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Restart(r.Context(), visitorFromContext(r.Context())); err != nil {
		s.actionError(w, r, err)
		return
	}
	s.afterAction(w, r)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.Sessions.ToggleTheme(r.Context(), visitorFromContext(r.Context()), themeHint(r))
	if err != nil {
		s.actionError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("theme is now %s", theme)
	s.afterAction(w, r)
}

func (s *Server) handleSun(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.ClickSun(r.Context(), visitorFromContext(r.Context())); err != nil {
		s.actionError(w, r, err)
		return
	}
	s.afterAction(w, r)
}
