package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/application/views"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// JournalService handles journal business logic
type JournalService struct {
	journalRepo ports.JournalRepository
	logger      *logger.Logger
	now         func() time.Time
}

// JournalStats is the mood and streak summary derived from the full
// journal snapshot.
type JournalStats struct {
	TotalEntries  int            `json:"totalEntries"`
	MoodCounts    map[string]int `json:"moodCounts"`
	MostCommon    string         `json:"mostCommonMood,omitempty"`
	CurrentStreak int            `json:"currentStreak"`
}

// NewJournalService creates a new journal service
func NewJournalService(journalRepo ports.JournalRepository, appLogger *logger.Logger) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		logger:      appLogger,
		now:         time.Now,
	}
}

// ListEntries returns all journal entries, most recent date first.
func (s *JournalService) ListEntries(ctx context.Context) ([]entities.JournalEntry, error) {
	entries, err := s.journalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return views.SortJournal(entries), nil
}

// GetByDate retrieves the entry for a calendar date, nil when absent.
func (s *JournalService) GetByDate(ctx context.Context, date string) (*entities.JournalEntry, error) {
	if !entities.ValidDate(date) {
		return nil, entities.ErrInvalidDate
	}
	entry, err := s.journalRepo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, entities.ErrEntryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return entry, nil
}

// UpsertEntry writes the entry for its date, replacing any existing one.
// One entry per date is the collection invariant.
func (s *JournalService) UpsertEntry(ctx context.Context, req ports.UpsertJournalRequest) (*entities.JournalEntry, error) {
	if !entities.ValidDate(req.Date) {
		return nil, entities.ErrInvalidDate
	}
	if req.Mood != "" && !entities.Mood(req.Mood).IsValid() {
		return nil, entities.ErrInvalidMood
	}

	entry, err := s.journalRepo.Upsert(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert journal entry: %w", err)
	}

	s.logger.Infow("Journal entry saved", "entry_id", entry.ID, "date", entry.Date)
	return entry, nil
}

// UpdateEntry merges a partial update by id. A missing id returns (nil, nil).
func (s *JournalService) UpdateEntry(ctx context.Context, id string, req ports.UpdateJournalRequest) (*entities.JournalEntry, error) {
	if req.Mood != nil && *req.Mood != "" && !entities.Mood(*req.Mood).IsValid() {
		return nil, entities.ErrInvalidMood
	}
	entry, err := s.journalRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry; deleting an unknown id is a no-op.
func (s *JournalService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.journalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}

// Stats computes the mood histogram, the most common mood and the current
// writing streak ending today.
func (s *JournalService) Stats(ctx context.Context) (*JournalStats, error) {
	entries, err := s.journalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	hist := views.MoodHistogram(entries)
	counts := make(map[string]int, len(hist))
	for mood, n := range hist {
		counts[string(mood)] = n
	}

	stats := &JournalStats{
		TotalEntries:  len(entries),
		MoodCounts:    counts,
		CurrentStreak: views.Streak(entries, s.now()),
	}
	if mood, ok := views.MostCommonMood(entries); ok {
		stats.MostCommon = string(mood)
	}
	return stats, nil
}
