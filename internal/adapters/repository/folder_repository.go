package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// CascadeFunc nulls dependent references after a folder delete. The
// dependent collection lives under a different key, so the two writes are
// not atomic; readers tolerate a dangling reference between them.
type CascadeFunc func(ctx context.Context, folderID string) error

// FolderRepositoryImpl implements the FolderRepository interface. It is
// instantiated once per folder collection (task folders, note folders) with
// the matching key and cascade hook.
type FolderRepositoryImpl struct {
	kv      ports.KV
	key     string
	logger  *logger.Logger
	cascade CascadeFunc
}

// NewFolderRepository creates a folder repository over the given key.
func NewFolderRepository(kv ports.KV, key string, appLogger *logger.Logger, cascade CascadeFunc) ports.FolderRepository {
	return &FolderRepositoryImpl{
		kv:      kv,
		key:     key,
		logger:  appLogger.WithComponent("folders").WithFields("collection", key),
		cascade: cascade,
	}
}

func (r *FolderRepositoryImpl) List(ctx context.Context) ([]entities.Folder, error) {
	folders, err := loadItems[entities.Folder](ctx, r.kv, r.key)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, req ports.CreateFolderRequest) (*entities.Folder, error) {
	folders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	folder := entities.Folder{
		ID:        entities.NewID(),
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now(),
	}

	folders = append(folders, folder)
	if err := saveItems(ctx, r.kv, r.key, folders); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	return &folder, nil
}

func (r *FolderRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateFolderRequest) (*entities.Folder, error) {
	folders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range folders {
		if folders[i].ID != id {
			continue
		}

		if req.Name != nil {
			folders[i].Name = *req.Name
		}
		if req.Color != nil {
			folders[i].Color = *req.Color
		}

		if err := saveItems(ctx, r.kv, r.key, folders); err != nil {
			return nil, fmt.Errorf("update folder: %w", err)
		}
		return &folders[i], nil
	}

	return nil, nil
}

// Delete removes the folder and then nulls every dependent reference via the
// cascade hook. Deleting an unknown id is a no-op and triggers no cascade.
func (r *FolderRepositoryImpl) Delete(ctx context.Context, id string) error {
	folders, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := folders[:0]
	removed := false
	for _, f := range folders {
		if f.ID == id {
			removed = true
			continue
		}
		kept = append(kept, f)
	}

	if !removed {
		return nil
	}

	if err := saveItems(ctx, r.kv, r.key, kept); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if r.cascade != nil {
		if err := r.cascade(ctx, id); err != nil {
			return fmt.Errorf("cascade folder delete: %w", err)
		}
	}

	r.logger.Infow("Folder deleted", "folder_id", id)
	return nil
}
