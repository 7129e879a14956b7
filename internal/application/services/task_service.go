package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zephyr-app/core/internal/application/views"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo   ports.TaskRepository
	folderRepo ports.FolderRepository
	logger     *logger.Logger
}

// TaskStats is the derived completion summary for a task snapshot.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, folderRepo ports.FolderRepository, appLogger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		folderRepo: folderRepo,
		logger:     appLogger,
	}
}

// ListTasks returns the filtered, sorted snapshot. Dangling folder
// references are filtered out defensively: a folderId pointing at a deleted
// folder renders as no folder.
func (s *TaskService) ListTasks(ctx context.Context, filter views.TaskFilter, sortKey views.SortKey) ([]entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	live := make(map[string]bool, len(folders))
	for _, f := range folders {
		live[f.ID] = true
	}
	for i := range tasks {
		if tasks[i].FolderID != nil && !live[*tasks[i].FolderID] {
			tasks[i].FolderID = nil
		}
	}

	tasks = views.FilterTasks(tasks, filter)
	if sortKey != "" {
		tasks = views.SortTasks(tasks, sortKey)
	}
	return tasks, nil
}

// GetTask retrieves a task by id, nil when absent.
func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.Priority != "" && !req.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}
	if req.DueDate != nil && *req.DueDate != "" && !entities.ValidDate(*req.DueDate) {
		return nil, entities.ErrInvalidDate
	}

	task, err := s.taskRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "title", task.Title)
	return task, nil
}

// UpdateTask merges a partial update. A missing id returns (nil, nil).
func (s *TaskService) UpdateTask(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	if req.Priority != nil && !req.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}
	if req.DueDate != nil && *req.DueDate != "" && !entities.ValidDate(*req.DueDate) {
		return nil, entities.ErrInvalidDate
	}

	task, err := s.taskRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		return nil, nil
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "title", task.Title)
	return task, nil
}

// ToggleTask flips completion; completedAt moves with it.
func (s *TaskService) ToggleTask(ctx context.Context, id string) (*entities.Task, error) {
	task, err := s.taskRepo.Toggle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	if task == nil {
		return nil, nil
	}

	s.logger.Infow("Task toggled", "task_id", task.ID, "completed", task.Completed)
	return task, nil
}

// DeleteTask deletes a task. Deleting an unknown id is a no-op.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}

// Stats computes the completion summary over the full snapshot.
func (s *TaskService) Stats(ctx context.Context) (*TaskStats, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	return &TaskStats{
		Total:          len(tasks),
		Completed:      completed,
		CompletionRate: views.CompletionRate(tasks),
	}, nil
}
