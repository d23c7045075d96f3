package api

import (
	"net/http"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.As(err)
	logAppError(r, appErr)

	if wantsJSON(r) {
		writeJSON(w, r, appErr.Status, map[string]errorBody{
			"error": {Code: appErr.Code, Message: appErr.Message},
		})
		return
	}
	http.Error(w, appErr.Message, appErr.Status)
}

// actionError handles a rejected quiz action. Browsers get the current screen
// back with the error status, since the view already carries the inline
// message; anything else falls through to the error page.
func (s *Server) actionError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.As(err)
	if wantsJSON(r) {
		handleError(w, r, appErr)
		return
	}

	logAppError(r, appErr)
	switch appErr.Code {
	case errors.ErrCodeNoAnswer, errors.ErrCodeConflict:
		s.renderQuiz(w, r, appErr.Status)
	default:
		s.renderStatus(w, r, appErr.Status, "pages/error.html", pageData{
			"theme":   models.ThemeLight,
			"status":  appErr.Status,
			"message": appErr.Message,
		})
	}
}

func logAppError(r *http.Request, appErr *errors.AppError) {
	log := logger.FromContext(r.Context())
	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}
}
