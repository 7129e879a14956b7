package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NotificationHandler handles notification feed requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications handles listing the feed newest first
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	notifications, err := h.notificationService.ListNotifications(c.Request().Context())
	if err != nil {
		h.logger.Error("List notifications failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve notifications")
	}

	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount handles the unread counter
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationService.UnreadCount(c.Request().Context())
	if err != nil {
		h.logger.Error("Unread count failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}

	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

// CreateNotification handles manual notification creation. Duplicates
// inside the dedup window are suppressed and reported as 200 with no body.
func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	var req ports.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notification, err := h.notificationService.Notify(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create notification failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if notification == nil {
		return c.JSON(http.StatusOK, MessageResponse{Message: "Notification suppressed"})
	}

	return c.JSON(http.StatusCreated, notification)
}

// MarkRead handles marking one notification read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notification, err := h.notificationService.MarkRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Mark notification read failed", "error", err, "notification_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}
	if notification == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}

	return c.JSON(http.StatusOK, notification)
}

// MarkAllRead handles marking the whole feed read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notificationService.MarkAllRead(c.Request().Context()); err != nil {
		h.logger.Error("Mark all read failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications read")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All notifications marked read"})
}

// ClearAll handles emptying the feed
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	if err := h.notificationService.ClearAll(c.Request().Context()); err != nil {
		h.logger.Error("Clear notifications failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear notifications")
	}

	return c.NoContent(http.StatusNoContent)
}
