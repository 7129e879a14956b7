package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NoteRepositoryImpl implements the NoteRepository interface
type NoteRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(kv ports.KV, appLogger *logger.Logger) ports.NoteRepository {
	return &NoteRepositoryImpl{kv: kv, logger: appLogger.WithComponent("notes")}
}

func (r *NoteRepositoryImpl) List(ctx context.Context) ([]entities.Note, error) {
	notes, err := loadItems[entities.Note](ctx, r.kv, KeyNotes)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepositoryImpl) Get(ctx context.Context, id string) (*entities.Note, error) {
	notes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, entities.ErrNoteNotFound
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, req ports.CreateNoteRequest) (*entities.Note, error) {
	notes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := entities.Note{
		ID:        entities.NewID(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Color:     req.Color,
		Pinned:    req.Pinned,
		Favorite:  req.Favorite,
		FolderID:  normalizeRef(req.FolderID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	notes = append(notes, note)
	if err := saveItems(ctx, r.kv, KeyNotes, notes); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	return &note, nil
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateNoteRequest) (*entities.Note, error) {
	notes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range notes {
		if notes[i].ID != id {
			continue
		}

		note := &notes[i]

		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Content != nil {
			note.Content = *req.Content
		}
		if req.Tags != nil {
			note.Tags = *req.Tags
		}
		if req.Color != nil {
			note.Color = *req.Color
		}
		if req.Pinned != nil {
			note.Pinned = *req.Pinned
		}
		if req.Favorite != nil {
			note.Favorite = *req.Favorite
		}
		if req.FolderID != nil {
			note.FolderID = normalizeRef(req.FolderID)
		}
		if req.Archived != nil {
			note.Archived = *req.Archived
		}
		note.UpdatedAt = time.Now()

		if err := saveItems(ctx, r.kv, KeyNotes, notes); err != nil {
			return nil, fmt.Errorf("update note: %w", err)
		}
		return note, nil
	}

	return nil, nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id string) error {
	notes, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := notes[:0]
	removed := false
	for _, n := range notes {
		if n.ID == id {
			removed = true
			continue
		}
		kept = append(kept, n)
	}

	if !removed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyNotes, kept); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *NoteRepositoryImpl) ClearFolder(ctx context.Context, folderID string) error {
	notes, err := r.List(ctx)
	if err != nil {
		return err
	}

	changed := false
	now := time.Now()
	for i := range notes {
		if notes[i].FolderID != nil && *notes[i].FolderID == folderID {
			notes[i].FolderID = nil
			notes[i].UpdatedAt = now
			changed = true
		}
	}

	if !changed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyNotes, notes); err != nil {
		return fmt.Errorf("clear note folder refs: %w", err)
	}
	return nil
}

// Append adds imported records as-is, regenerating only their ids. It never
// de-duplicates: re-importing the same file duplicates every record.
func (r *NoteRepositoryImpl) Append(ctx context.Context, imported []entities.Note) (int, error) {
	notes, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, n := range imported {
		n.ID = entities.NewID()
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = now
		}
		notes = append(notes, n)
	}

	if err := saveItems(ctx, r.kv, KeyNotes, notes); err != nil {
		return 0, fmt.Errorf("append notes: %w", err)
	}

	return len(imported), nil
}
