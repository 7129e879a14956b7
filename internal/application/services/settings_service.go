package services

import (
	"context"
	"fmt"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// SettingsService handles the single-record configuration blobs.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	logger       *logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo ports.SettingsRepository, appLogger *logger.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       appLogger,
	}
}

// GetSettings returns the stored settings, defaults when nothing is stored.
func (s *SettingsService) GetSettings(ctx context.Context) (entities.Settings, error) {
	return s.settingsRepo.Get(ctx)
}

// PutSettings replaces the settings record whole. Partial merges happen on
// the client side; the record is small enough to round-trip.
func (s *SettingsService) PutSettings(ctx context.Context, settings entities.Settings) error {
	if settings.Timer.FocusMinutes < 1 || settings.Timer.ShortBreakMinutes < 1 || settings.Timer.LongBreakMinutes < 1 {
		return fmt.Errorf("timer durations must be at least one minute")
	}
	if settings.Timer.LongBreakInterval < 1 {
		return fmt.Errorf("long break interval must be at least one")
	}
	if err := s.settingsRepo.Put(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Infow("Settings updated")
	return nil
}

// GetNotificationSettings returns the notification preferences.
func (s *SettingsService) GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, error) {
	return s.settingsRepo.GetNotificationSettings(ctx)
}

// PutNotificationSettings replaces the notification preferences whole.
func (s *SettingsService) PutNotificationSettings(ctx context.Context, ns entities.NotificationSettings) error {
	if ns.JournalReminderTime != "" && !entities.ValidTime(ns.JournalReminderTime) {
		return entities.ErrInvalidTime
	}
	if err := s.settingsRepo.PutNotificationSettings(ctx, ns); err != nil {
		return fmt.Errorf("failed to save notification settings: %w", err)
	}
	return nil
}

// Theme returns the stored theme name.
func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	return s.settingsRepo.Theme(ctx)
}

// SetTheme stores the theme name.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if theme == "" {
		return fmt.Errorf("theme must not be empty")
	}
	return s.settingsRepo.SetTheme(ctx, theme)
}

// ColorMode returns the stored color mode.
func (s *SettingsService) ColorMode(ctx context.Context) (string, error) {
	return s.settingsRepo.ColorMode(ctx)
}

// SetColorMode stores the color mode. Only the three known modes pass.
func (s *SettingsService) SetColorMode(ctx context.Context, mode string) error {
	switch mode {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}
	return s.settingsRepo.SetColorMode(ctx, mode)
}
