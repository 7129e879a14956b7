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

// NoteService handles note business logic
type NoteService struct {
	noteRepo   ports.NoteRepository
	folderRepo ports.FolderRepository
	logger     *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo ports.NoteRepository, folderRepo ports.FolderRepository, appLogger *logger.Logger) *NoteService {
	return &NoteService{
		noteRepo:   noteRepo,
		folderRepo: folderRepo,
		logger:     appLogger,
	}
}

// ListNotes returns notes filtered and ordered for display, pinned first.
func (s *NoteService) ListNotes(ctx context.Context, filter views.NoteFilter, key views.SortKey) ([]entities.Note, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	// Notes whose folder was removed out from under them render as unfiled.
	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list note folders: %w", err)
	}
	live := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		live[f.ID] = struct{}{}
	}
	for i := range notes {
		if notes[i].FolderID != nil {
			if _, ok := live[*notes[i].FolderID]; !ok {
				notes[i].FolderID = nil
			}
		}
	}

	notes = views.FilterNotes(notes, filter)
	return views.SortNotes(notes, key), nil
}

// GetNote retrieves a note by id, nil when absent.
func (s *NoteService) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.noteRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// CreateNote creates a new note
func (s *NoteService) CreateNote(ctx context.Context, req ports.CreateNoteRequest) (*entities.Note, error) {
	note, err := s.noteRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Infow("Note created", "note_id", note.ID, "title", note.Title)
	return note, nil
}

// UpdateNote merges a partial update. A missing id returns (nil, nil).
func (s *NoteService) UpdateNote(ctx context.Context, id string, req ports.UpdateNoteRequest) (*entities.Note, error) {
	note, err := s.noteRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// TogglePin flips the pinned flag on a note. A missing id returns (nil, nil).
func (s *NoteService) TogglePin(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	pinned := !note.Pinned
	return s.noteRepo.Update(ctx, id, ports.UpdateNoteRequest{Pinned: &pinned})
}

// DeleteNote removes a note; deleting an unknown id is a no-op.
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
