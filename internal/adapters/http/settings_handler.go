package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
)

// SettingsHandler handles settings requests
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// ThemeRequest carries the theme or color mode value.
type ThemeRequest struct {
	Value string `json:"value" validate:"required,max=100"`
}

// GetSettings handles reading the settings record
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	if err != nil {
		h.logger.Error("Get settings failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}

	return c.JSON(http.StatusOK, settings)
}

// PutSettings handles replacing the settings record
func (h *SettingsHandler) PutSettings(c echo.Context) error {
	var settings entities.Settings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.settingsService.PutSettings(c.Request().Context(), settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, settings)
}

// GetNotificationSettings handles reading notification preferences
func (h *SettingsHandler) GetNotificationSettings(c echo.Context) error {
	ns, err := h.settingsService.GetNotificationSettings(c.Request().Context())
	if err != nil {
		h.logger.Error("Get notification settings failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load notification settings")
	}

	return c.JSON(http.StatusOK, ns)
}

// PutNotificationSettings handles replacing notification preferences
func (h *SettingsHandler) PutNotificationSettings(c echo.Context) error {
	var ns entities.NotificationSettings
	if err := c.Bind(&ns); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.settingsService.PutNotificationSettings(c.Request().Context(), ns); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, ns)
}

// GetTheme handles reading the theme name
func (h *SettingsHandler) GetTheme(c echo.Context) error {
	theme, err := h.settingsService.Theme(c.Request().Context())
	if err != nil {
		h.logger.Error("Get theme failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load theme")
	}

	return c.JSON(http.StatusOK, ThemeRequest{Value: theme})
}

// SetTheme handles storing the theme name
func (h *SettingsHandler) SetTheme(c echo.Context) error {
	var req ThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsService.SetTheme(c.Request().Context(), req.Value); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, req)
}

// GetColorMode handles reading the color mode
func (h *SettingsHandler) GetColorMode(c echo.Context) error {
	mode, err := h.settingsService.ColorMode(c.Request().Context())
	if err != nil {
		h.logger.Error("Get color mode failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load color mode")
	}

	return c.JSON(http.StatusOK, ThemeRequest{Value: mode})
}

// SetColorMode handles storing the color mode
func (h *SettingsHandler) SetColorMode(c echo.Context) error {
	var req ThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.settingsService.SetColorMode(c.Request().Context(), req.Value); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, req)
}
