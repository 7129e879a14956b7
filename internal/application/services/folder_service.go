package services

import (
	"context"
	"fmt"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// FolderService handles folder operations for one folder collection. It is
// constructed twice: once over task folders, once over note folders.
type FolderService struct {
	folderRepo ports.FolderRepository
	scope      string
	logger     *logger.Logger
}

// NewFolderService creates a folder service for the given scope.
func NewFolderService(folderRepo ports.FolderRepository, scope string, appLogger *logger.Logger) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		scope:      scope,
		logger:     appLogger.WithFields("scope", scope),
	}
}

// ListFolders returns the folder snapshot in insertion order.
func (s *FolderService) ListFolders(ctx context.Context) ([]entities.Folder, error) {
	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// CreateFolder creates a new folder
func (s *FolderService) CreateFolder(ctx context.Context, req ports.CreateFolderRequest) (*entities.Folder, error) {
	folder, err := s.folderRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	s.logger.Infow("Folder created", "folder_id", folder.ID, "name", folder.Name)
	return folder, nil
}

// UpdateFolder merges a partial update. A missing id returns (nil, nil).
func (s *FolderService) UpdateFolder(ctx context.Context, id string, req ports.UpdateFolderRequest) (*entities.Folder, error) {
	folder, err := s.folderRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes the folder; the repository's cascade hook nulls
// every dependent reference in the same logical operation.
func (s *FolderService) DeleteFolder(ctx context.Context, id string) error {
	if err := s.folderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}
