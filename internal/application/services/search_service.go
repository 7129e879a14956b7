package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zephyr-app/core/internal/application/views"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// SearchService runs the cross-collection search. Collections are loaded
// fresh on every query; the snapshots are small enough that an index would
// not pay for itself.
type SearchService struct {
	noteRepo    ports.NoteRepository
	journalRepo ports.JournalRepository
	eventRepo   ports.EventRepository
	taskRepo    ports.TaskRepository
	logger      *logger.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	noteRepo ports.NoteRepository,
	journalRepo ports.JournalRepository,
	eventRepo ports.EventRepository,
	taskRepo ports.TaskRepository,
	appLogger *logger.Logger,
) *SearchService {
	return &SearchService{
		noteRepo:    noteRepo,
		journalRepo: journalRepo,
		eventRepo:   eventRepo,
		taskRepo:    taskRepo,
		logger:      appLogger,
	}
}

// Search queries notes, journal entries, events and tasks with one shared
// substring rule. A blank query returns empty results without touching the
// store.
func (s *SearchService) Search(ctx context.Context, query string) (*views.SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		res := views.Search(nil, nil, nil, nil, "")
		return &res, nil
	}

	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	journal, err := s.journalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	res := views.Search(notes, journal, events, tasks, query)
	s.logger.Debugw("Search executed", "query", query, "hits", res.Total())
	return &res, nil
}

// SearchFlat returns the same results as Search flattened into one list,
// notes first, for clients that render a single feed.
func (s *SearchService) SearchFlat(ctx context.Context, query string) ([]views.FlatHit, error) {
	res, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return res.Flatten(), nil
}
