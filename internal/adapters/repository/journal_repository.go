package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// JournalRepositoryImpl implements the JournalRepository interface
type JournalRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewJournalRepository creates a new journal repository
func NewJournalRepository(kv ports.KV, appLogger *logger.Logger) ports.JournalRepository {
	return &JournalRepositoryImpl{kv: kv, logger: appLogger.WithComponent("journal")}
}

func (r *JournalRepositoryImpl) List(ctx context.Context) ([]entities.JournalEntry, error) {
	entries, err := loadItems[entities.JournalEntry](ctx, r.kv, KeyJournal)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

func (r *JournalRepositoryImpl) GetByDate(ctx context.Context, date string) (*entities.JournalEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Date == date {
			return &entries[i], nil
		}
	}
	return nil, entities.ErrEntryNotFound
}

// Upsert inserts a new entry or, when the date is already occupied, mutates
// the existing record in place. At most one entry per calendar date survives
// any sequence of upserts.
func (r *JournalRepositoryImpl) Upsert(ctx context.Context, req ports.UpsertJournalRequest) (*entities.JournalEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	for i := range entries {
		if entries[i].Date != req.Date {
			continue
		}

		entries[i].Content = req.Content
		entries[i].Mood = req.Mood
		if req.Tags != nil {
			entries[i].Tags = req.Tags
		}
		entries[i].UpdatedAt = now

		if err := saveItems(ctx, r.kv, KeyJournal, entries); err != nil {
			return nil, fmt.Errorf("upsert journal entry: %w", err)
		}
		return &entries[i], nil
	}

	entry := entities.JournalEntry{
		ID:        entities.NewID(),
		Date:      req.Date,
		Content:   req.Content,
		Mood:      req.Mood,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	entries = append(entries, entry)
	if err := saveItems(ctx, r.kv, KeyJournal, entries); err != nil {
		return nil, fmt.Errorf("upsert journal entry: %w", err)
	}

	return &entry, nil
}

func (r *JournalRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateJournalRequest) (*entities.JournalEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID != id {
			continue
		}

		entry := &entries[i]

		if req.Content != nil {
			entry.Content = *req.Content
		}
		if req.Mood != nil {
			entry.Mood = *req.Mood
		}
		if req.Tags != nil {
			entry.Tags = *req.Tags
		}
		if req.Archived != nil {
			entry.Archived = *req.Archived
		}
		entry.UpdatedAt = time.Now()

		if err := saveItems(ctx, r.kv, KeyJournal, entries); err != nil {
			return nil, fmt.Errorf("update journal entry: %w", err)
		}
		return entry, nil
	}

	return nil, nil
}

func (r *JournalRepositoryImpl) Delete(ctx context.Context, id string) error {
	entries, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}

	if !removed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyJournal, kept); err != nil {
		return fmt.Errorf("delete journal entry: %w", err)
	}
	return nil
}

// Append adds imported entries as-is with fresh ids. Unlike Upsert it does
// not collapse by date: import preserves the source file's records verbatim.
func (r *JournalRepositoryImpl) Append(ctx context.Context, imported []entities.JournalEntry) (int, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, e := range imported {
		e.ID = entities.NewID()
		if e.Tags == nil {
			e.Tags = []string{}
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
		}
		entries = append(entries, e)
	}

	if err := saveItems(ctx, r.kv, KeyJournal, entries); err != nil {
		return 0, fmt.Errorf("append journal entries: %w", err)
	}

	return len(imported), nil
}
