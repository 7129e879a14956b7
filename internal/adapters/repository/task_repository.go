package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(kv ports.KV, appLogger *logger.Logger) ports.TaskRepository {
	return &TaskRepositoryImpl{kv: kv, logger: appLogger.WithComponent("tasks")}
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]entities.Task, error) {
	tasks, err := loadItems[entities.Task](ctx, r.kv, KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Get(ctx context.Context, id string) (*entities.Task, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := entities.Task{
		ID:          entities.NewID(),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		FolderID:    normalizeRef(req.FolderID),
		DueDate:     normalizeRef(req.DueDate),
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	tasks = append(tasks, task)
	if err := saveItems(ctx, r.kv, KeyTasks, tasks); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}

		task := &tasks[i]
		now := time.Now()

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.FolderID != nil {
			task.FolderID = normalizeRef(req.FolderID)
		}
		if req.DueDate != nil {
			task.DueDate = normalizeRef(req.DueDate)
		}
		if req.Tags != nil {
			task.Tags = *req.Tags
		}
		if req.Completed != nil {
			task.SetCompleted(*req.Completed, now)
		}
		task.UpdatedAt = now

		if err := saveItems(ctx, r.kv, KeyTasks, tasks); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
		return task, nil
	}

	return nil, nil
}

func (r *TaskRepositoryImpl) Toggle(ctx context.Context, id string) (*entities.Task, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}

		tasks[i].SetCompleted(!tasks[i].Completed, time.Now())

		if err := saveItems(ctx, r.kv, KeyTasks, tasks); err != nil {
			return nil, fmt.Errorf("toggle task: %w", err)
		}
		return &tasks[i], nil
	}

	return nil, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id string) error {
	tasks, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := tasks[:0]
	removed := false
	for _, t := range tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}

	if !removed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyTasks, kept); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) ClearFolder(ctx context.Context, folderID string) error {
	tasks, err := r.List(ctx)
	if err != nil {
		return err
	}

	changed := false
	now := time.Now()
	for i := range tasks {
		if tasks[i].FolderID != nil && *tasks[i].FolderID == folderID {
			tasks[i].FolderID = nil
			tasks[i].UpdatedAt = now
			changed = true
		}
	}

	if !changed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyTasks, tasks); err != nil {
		return fmt.Errorf("clear task folder refs: %w", err)
	}
	return nil
}

// normalizeRef maps a pointer to the empty string onto a cleared reference.
func normalizeRef(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
