package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/application/views"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NoteHandler handles note-related requests
type NoteHandler struct {
	noteService *services.NoteService
	logger      *logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *services.NoteService, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// ListNotes handles listing notes with optional filters
func (h *NoteHandler) ListNotes(c echo.Context) error {
	filter := views.NoteFilter{
		Tag:   c.QueryParam("tag"),
		Query: c.QueryParam("q"),
	}
	if archivedStr := c.QueryParam("archived"); archivedStr != "" {
		archived, err := strconv.ParseBool(archivedStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid archived parameter")
		}
		filter.Archived = &archived
	}
	if folderID := c.QueryParam("folderId"); folderID != "" {
		filter.FolderID = &folderID
	}

	notes, err := h.noteService.ListNotes(c.Request().Context(), filter, views.SortKey(c.QueryParam("sort")))
	if err != nil {
		h.logger.Error("List notes failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve notes")
	}

	return c.JSON(http.StatusOK, notes)
}

// GetNote handles getting a note by ID
func (h *NoteHandler) GetNote(c echo.Context) error {
	note, err := h.noteService.GetNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Get note failed", "error", err, "note_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve note")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}

	return c.JSON(http.StatusOK, note)
}

// CreateNote handles note creation
func (h *NoteHandler) CreateNote(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.CreateNote(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create note failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, note)
}

// UpdateNote handles partial note updates
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	var req ports.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.noteService.UpdateNote(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		h.logger.Error("Update note failed", "error", err, "note_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}

	return c.JSON(http.StatusOK, note)
}

// TogglePin handles flipping a note's pinned flag
func (h *NoteHandler) TogglePin(c echo.Context) error {
	note, err := h.noteService.TogglePin(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Toggle pin failed", "error", err, "note_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle pin")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}

	return c.JSON(http.StatusOK, note)
}

// DeleteNote handles note deletion
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	if err := h.noteService.DeleteNote(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Delete note failed", "error", err, "note_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete note")
	}

	return c.NoContent(http.StatusNoContent)
}
