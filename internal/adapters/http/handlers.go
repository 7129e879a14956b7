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

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks handles listing tasks with optional filters
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter := views.TaskFilter{
		Tag:   c.QueryParam("tag"),
		Query: c.QueryParam("q"),
	}
	if completedStr := c.QueryParam("completed"); completedStr != "" {
		completed, err := strconv.ParseBool(completedStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid completed parameter")
		}
		filter.Completed = &completed
	}
	if folderID := c.QueryParam("folderId"); folderID != "" {
		filter.FolderID = &folderID
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), filter, views.SortKey(c.QueryParam("sort")))
	if err != nil {
		h.logger.Error("List tasks failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetTask handles getting a task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Get task failed", "error", err, "task_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve task")
	}
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}

	return c.JSON(http.StatusOK, task)
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles partial task updates
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}

	return c.JSON(http.StatusOK, task)
}

// ToggleTask handles flipping a task's completion flag
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	task, err := h.taskService.ToggleTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Toggle task failed", "error", err, "task_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle task")
	}
	if task == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete task")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTaskStats handles the completion summary
func (h *TaskHandler) GetTaskStats(c echo.Context) error {
	stats, err := h.taskService.Stats(c.Request().Context())
	if err != nil {
		h.logger.Error("Task stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute task stats")
	}

	return c.JSON(http.StatusOK, stats)
}

// FolderHandler handles folder requests for one folder collection. The
// server mounts one instance for task folders and one for note folders.
type FolderHandler struct {
	folderService *services.FolderService
	logger        *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService *services.FolderService, logger *logger.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders handles listing folders
func (h *FolderHandler) ListFolders(c echo.Context) error {
	folders, err := h.folderService.ListFolders(c.Request().Context())
	if err != nil {
		h.logger.Error("List folders failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve folders")
	}

	return c.JSON(http.StatusOK, folders)
}

// CreateFolder handles folder creation
func (h *FolderHandler) CreateFolder(c echo.Context) error {
	var req ports.CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	folder, err := h.folderService.CreateFolder(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create folder failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, folder)
}

// UpdateFolder handles partial folder updates
func (h *FolderHandler) UpdateFolder(c echo.Context) error {
	var req ports.UpdateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	folder, err := h.folderService.UpdateFolder(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		h.logger.Error("Update folder failed", "error", err, "folder_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if folder == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Folder not found")
	}

	return c.JSON(http.StatusOK, folder)
}

// DeleteFolder handles folder deletion with reference cleanup
func (h *FolderHandler) DeleteFolder(c echo.Context) error {
	if err := h.folderService.DeleteFolder(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Delete folder failed", "error", err, "folder_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete folder")
	}

	return c.NoContent(http.StatusNoContent)
}

// Request/Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type CountResponse struct {
	Count int `json:"count"`
}
