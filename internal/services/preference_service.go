package services

import (
	"context"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// PreferenceService handles per-visitor display preferences
type PreferenceService interface {
	// Theme returns the stored theme, falling back to the client hint and then
	// to the configured default.
	Theme(ctx context.Context, visitorID, hint string) (string, error)
	// ToggleTheme flips the theme and persists the new value.
	ToggleTheme(ctx context.Context, visitorID, hint string) (string, error)
}

type preferenceService struct {
	prefRepo     repository.PreferenceRepository
	defaultTheme string
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefRepo repository.PreferenceRepository, defaultTheme string) PreferenceService {
	if !validTheme(defaultTheme) {
		defaultTheme = models.ThemeLight
	}
	return &preferenceService{prefRepo: prefRepo, defaultTheme: defaultTheme}
}

func (s *preferenceService) Theme(ctx context.Context, visitorID, hint string) (string, error) {
	log := logger.FromContext(ctx)

	value, ok, err := s.prefRepo.Get(ctx, visitorID, models.PreferenceTheme)
	if err != nil {
		log.Error("failed to load theme: %v", err)
		return "", errors.NewInternalError(err)
	}
	if ok && validTheme(value) {
		return value, nil
	}
	if validTheme(hint) {
		return hint, nil
	}
	return s.defaultTheme, nil
}

func (s *preferenceService) ToggleTheme(ctx context.Context, visitorID, hint string) (string, error) {
	log := logger.FromContext(ctx)

	current, err := s.Theme(ctx, visitorID, hint)
	if err != nil {
		return "", err
	}
	next := models.ThemeDark
	if current == models.ThemeDark {
		next = models.ThemeLight
	}

	if err := s.prefRepo.Set(ctx, visitorID, models.PreferenceTheme, next); err != nil {
		log.Error("failed to store theme: %v", err)
		return "", errors.NewInternalError(err)
	}
	log.Debug("theme toggled: %s -> %s", current, next)
	return next, nil
}

func validTheme(v string) bool {
	return v == models.ThemeLight || v == models.ThemeDark
}
