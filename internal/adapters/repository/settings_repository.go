package repository

import (
	"context"
	"fmt"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// SettingsRepositoryImpl manages the single-record configuration blobs.
// Missing or unreadable records fall back to defaults; defaults are not
// written back until the user changes something.
type SettingsRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(kv ports.KV, appLogger *logger.Logger) ports.SettingsRepository {
	return &SettingsRepositoryImpl{kv: kv, logger: appLogger.WithComponent("settings")}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context) (entities.Settings, error) {
	var s entities.Settings
	found, err := r.kv.Read(ctx, KeySettings, &s)
	if err != nil {
		return entities.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if !found {
		return entities.DefaultSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepositoryImpl) Put(ctx context.Context, s entities.Settings) error {
	if err := r.kv.Write(ctx, KeySettings, s); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (r *SettingsRepositoryImpl) GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, error) {
	var s entities.NotificationSettings
	found, err := r.kv.Read(ctx, KeyNotificationSettings, &s)
	if err != nil {
		return entities.NotificationSettings{}, fmt.Errorf("read notification settings: %w", err)
	}
	if !found {
		return entities.DefaultNotificationSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepositoryImpl) PutNotificationSettings(ctx context.Context, s entities.NotificationSettings) error {
	if err := r.kv.Write(ctx, KeyNotificationSettings, s); err != nil {
		return fmt.Errorf("write notification settings: %w", err)
	}
	return nil
}

func (r *SettingsRepositoryImpl) Theme(ctx context.Context) (string, error) {
	return r.readString(ctx, KeyTheme, "zephyr")
}

func (r *SettingsRepositoryImpl) SetTheme(ctx context.Context, theme string) error {
	if err := r.kv.Write(ctx, KeyTheme, theme); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

func (r *SettingsRepositoryImpl) ColorMode(ctx context.Context) (string, error) {
	return r.readString(ctx, KeyColorMode, "system")
}

func (r *SettingsRepositoryImpl) SetColorMode(ctx context.Context, mode string) error {
	if err := r.kv.Write(ctx, KeyColorMode, mode); err != nil {
		return fmt.Errorf("write color mode: %w", err)
	}
	return nil
}

func (r *SettingsRepositoryImpl) readString(ctx context.Context, key, fallback string) (string, error) {
	var s string
	found, err := r.kv.Read(ctx, key, &s)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	if !found || s == "" {
		return fallback, nil
	}
	return s, nil
}
