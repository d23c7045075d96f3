package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

const colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// indexParam reads a non-negative integer URL parameter.
func indexParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, errors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return idx, nil
}

// themeHint returns the client's preferred color scheme, if it sent one.
func themeHint(r *http.Request) string {
	hint := strings.Trim(strings.TrimSpace(r.Header.Get(colorSchemeHint)), `"`)
	switch hint {
	case models.ThemeDark, models.ThemeLight:
		return hint
	default:
		return ""
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Debug("failed to encode response: %v", err)
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
