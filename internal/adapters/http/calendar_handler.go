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

// EventHandler handles calendar event requests
type EventHandler struct {
	eventService *services.EventService
	logger       *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents handles listing events, optionally for one date
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	var events []entities.CalendarEvent
	var err error
	if date := c.QueryParam("date"); date != "" {
		events, err = h.eventService.ListByDate(ctx, date)
	} else {
		events, err = h.eventService.ListEvents(ctx)
	}
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
		}
		h.logger.Error("List events failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve events")
	}

	return c.JSON(http.StatusOK, events)
}

// GetEvent handles getting an event by ID
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Get event failed", "error", err, "event_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve event")
	}
	if event == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	return c.JSON(http.StatusOK, event)
}

// CreateEvent handles event creation
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req ports.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create event failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles partial event updates
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var req ports.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		h.logger.Error("Update event failed", "error", err, "event_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if event == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent handles event deletion
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Delete event failed", "error", err, "event_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete event")
	}

	return c.NoContent(http.StatusNoContent)
}
