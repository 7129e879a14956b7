package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
)

// TransferHandler handles JSON export and import of the notes and journal
// collections.
type TransferHandler struct {
	transferService *services.TransferService
	logger          *logger.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *services.TransferService, logger *logger.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// ExportNotes streams the notes collection as a JSON download
func (h *TransferHandler) ExportNotes(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="notes.json"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.transferService.ExportNotes(c.Request().Context(), c.Response()); err != nil {
		h.logger.Error("Export notes failed", "error", err)
		return err
	}
	return nil
}

// ImportNotes reads a JSON array of notes from the request body
func (h *TransferHandler) ImportNotes(c echo.Context) error {
	count, err := h.transferService.ImportNotes(c.Request().Context(), c.Request().Body)
	if err != nil {
		if errors.Is(err, entities.ErrMalformedImport) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Import notes failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to import notes")
	}

	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

// ExportJournal streams the journal collection as a JSON download
func (h *TransferHandler) ExportJournal(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="journal.json"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.transferService.ExportJournal(c.Request().Context(), c.Response()); err != nil {
		h.logger.Error("Export journal failed", "error", err)
		return err
	}
	return nil
}

// ImportJournal reads a JSON array of journal entries from the request body
func (h *TransferHandler) ImportJournal(c echo.Context) error {
	count, err := h.transferService.ImportJournal(c.Request().Context(), c.Request().Body)
	if err != nil {
		if errors.Is(err, entities.ErrMalformedImport) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("Import journal failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to import journal")
	}

	return c.JSON(http.StatusOK, CountResponse{Count: count})
}
