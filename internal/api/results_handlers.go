package api

import (
	"net/http"
	"strings"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

const resultsPerPage = 20

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID := visitorFromContext(ctx)
	quizTitle := strings.TrimSpace(r.URL.Query().Get("quiz"))
	page := pageParam(r)

	log := logger.FromContext(ctx).WithFields(map[string]any{
		"quiz": quizTitle,
		"page": page,
	})
	log.Debug("listing attempts")

	attempts, total, err := s.Attempts.ListAttempts(ctx, models.AttemptFilter{
		VisitorID: visitorID,
		QuizTitle: quizTitle,
		Limit:     resultsPerPage,
		Offset:    (page - 1) * resultsPerPage,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	best, err := s.Attempts.BestScores(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	totalPages := total / resultsPerPage
	if total%resultsPerPage != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"attempts":    attempts,
			"total_count": total,
			"page":        page,
			"total_pages": totalPages,
			"best":        best,
		})
		return
	}

	theme, err := s.Preferences.Theme(ctx, visitorID, themeHint(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.render(w, r, "pages/results.html", pageData{
		"theme":       theme,
		"title":       "Results",
		"attempts":    attempts,
		"best":        best,
		"quiz":        quizTitle,
		"quizzes":     s.Quizzes,
		"page":        page,
		"total_pages": totalPages,
		"total_count": total,
	})
}
