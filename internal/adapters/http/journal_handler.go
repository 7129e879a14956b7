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

// JournalHandler handles journal-related requests
type JournalHandler struct {
	journalService *services.JournalService
	logger         *logger.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService *services.JournalService, logger *logger.Logger) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// ListEntries handles listing all journal entries
func (h *JournalHandler) ListEntries(c echo.Context) error {
	entries, err := h.journalService.ListEntries(c.Request().Context())
	if err != nil {
		h.logger.Error("List journal entries failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve journal entries")
	}

	return c.JSON(http.StatusOK, entries)
}

// GetByDate handles getting the entry for one calendar date
func (h *JournalHandler) GetByDate(c echo.Context) error {
	entry, err := h.journalService.GetByDate(c.Request().Context(), c.Param("date"))
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDate) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
		}
		h.logger.Error("Get journal entry failed", "error", err, "date", c.Param("date"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve journal entry")
	}
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Journal entry not found")
	}

	return c.JSON(http.StatusOK, entry)
}

// UpsertEntry handles writing the entry for a date
func (h *JournalHandler) UpsertEntry(c echo.Context) error {
	var req ports.UpsertJournalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.journalService.UpsertEntry(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDate) || errors.Is(err, entities.ErrInvalidMood) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Upsert journal entry failed", "error", err, "date", req.Date)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save journal entry")
	}

	return c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles partial journal entry updates by id
func (h *JournalHandler) UpdateEntry(c echo.Context) error {
	var req ports.UpdateJournalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.journalService.UpdateEntry(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidMood) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Update journal entry failed", "error", err, "entry_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update journal entry")
	}
	if entry == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Journal entry not found")
	}

	return c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles journal entry deletion
func (h *JournalHandler) DeleteEntry(c echo.Context) error {
	if err := h.journalService.DeleteEntry(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Delete journal entry failed", "error", err, "entry_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete journal entry")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStats handles the mood and streak summary
func (h *JournalHandler) GetStats(c echo.Context) error {
	stats, err := h.journalService.Stats(c.Request().Context())
	if err != nil {
		h.logger.Error("Journal stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute journal stats")
	}

	return c.JSON(http.StatusOK, stats)
}
