package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TimerHandler handles Pomodoro timer requests
type TimerHandler struct {
	timerService *services.TimerService
	logger       *logger.Logger
}

// NewTimerHandler creates a new timer handler
func NewTimerHandler(timerService *services.TimerService, logger *logger.Logger) *TimerHandler {
	return &TimerHandler{
		timerService: timerService,
		logger:       logger,
	}
}

// StartTimerRequest selects the mode to start; empty keeps the current one.
type StartTimerRequest struct {
	Mode entities.TimerMode `json:"mode" validate:"omitempty,oneof=focus short_break long_break"`
}

// GetState handles reading the recovered timer state
func (h *TimerHandler) GetState(c echo.Context) error {
	state, err := h.timerService.State(c.Request().Context())
	if err != nil {
		h.logger.Error("Get timer state failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load timer state")
	}

	return c.JSON(http.StatusOK, state)
}

// Start handles starting or resuming the timer
func (h *TimerHandler) Start(c echo.Context) error {
	var req StartTimerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state, err := h.timerService.Start(c.Request().Context(), req.Mode)
	if err != nil {
		h.logger.Error("Start timer failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start timer")
	}

	return c.JSON(http.StatusOK, state)
}

// Pause handles pausing the timer
func (h *TimerHandler) Pause(c echo.Context) error {
	state, err := h.timerService.Pause(c.Request().Context())
	if err != nil {
		h.logger.Error("Pause timer failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to pause timer")
	}

	return c.JSON(http.StatusOK, state)
}

// Reset handles resetting the timer to the current mode's full duration
func (h *TimerHandler) Reset(c echo.Context) error {
	state, err := h.timerService.Reset(c.Request().Context())
	if err != nil {
		h.logger.Error("Reset timer failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset timer")
	}

	return c.JSON(http.StatusOK, state)
}

// SessionHandler handles focus session requests
type SessionHandler struct {
	sessionService *services.SessionService
	logger         *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// ListSessions handles listing the session log
func (h *SessionHandler) ListSessions(c echo.Context) error {
	sessions, err := h.sessionService.ListSessions(c.Request().Context())
	if err != nil {
		h.logger.Error("List sessions failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve sessions")
	}

	return c.JSON(http.StatusOK, sessions)
}

// RecordSession handles appending a completed session
func (h *SessionHandler) RecordSession(c echo.Context) error {
	var req ports.RecordSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessionService.RecordSession(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
		}
		h.logger.Error("Record session failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record session")
	}

	return c.JSON(http.StatusCreated, session)
}

// GetWellness handles the per-day focus rollup
func (h *SessionHandler) GetWellness(c echo.Context) error {
	data, err := h.sessionService.Wellness(c.Request().Context())
	if err != nil {
		h.logger.Error("Get wellness failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load wellness data")
	}

	return c.JSON(http.StatusOK, data)
}
