package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// EventService handles calendar event business logic
type EventService struct {
	eventRepo ports.EventRepository
	logger    *logger.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo ports.EventRepository, appLogger *logger.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		logger:    appLogger,
	}
}

// ListEvents returns all events sorted by date, timed events in start order
// after the all-day ones. Recurring events appear once with their rule;
// occurrences are not expanded.
func (s *EventService) ListEvents(ctx context.Context) ([]entities.CalendarEvent, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return startKey(events[i]) < startKey(events[j])
	})
	return events, nil
}

// startKey orders all-day and untimed events before timed ones on the same
// date.
func startKey(e entities.CalendarEvent) string {
	if e.AllDay || e.Time == nil {
		return ""
	}
	return *e.Time
}

// ListByDate returns the events whose date matches exactly.
func (s *EventService) ListByDate(ctx context.Context, date string) ([]entities.CalendarEvent, error) {
	if !entities.ValidDate(date) {
		return nil, entities.ErrInvalidDate
	}
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]entities.CalendarEvent, 0)
	for _, e := range events {
		if e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// GetEvent retrieves an event by id, nil when absent.
func (s *EventService) GetEvent(ctx context.Context, id string) (*entities.CalendarEvent, error) {
	event, err := s.eventRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrEventNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// CreateEvent creates a new calendar event
func (s *EventService) CreateEvent(ctx context.Context, req ports.CreateEventRequest) (*entities.CalendarEvent, error) {
	if !entities.ValidDate(req.Date) {
		return nil, entities.ErrInvalidDate
	}
	if err := validateEventTimes(req.Time, req.EndTime); err != nil {
		return nil, err
	}
	if req.Category != "" && !req.Category.IsValid() {
		return nil, entities.ErrInvalidCategory
	}
	if req.Recurrence != "" && !req.Recurrence.IsValid() {
		return nil, entities.ErrInvalidRecurrence
	}

	event, err := s.eventRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Infow("Event created", "event_id", event.ID, "title", event.Title, "date", event.Date)
	return event, nil
}

// UpdateEvent merges a partial update. A missing id returns (nil, nil).
func (s *EventService) UpdateEvent(ctx context.Context, id string, req ports.UpdateEventRequest) (*entities.CalendarEvent, error) {
	if req.Date != nil && !entities.ValidDate(*req.Date) {
		return nil, entities.ErrInvalidDate
	}
	if err := validateEventTimes(req.Time, req.EndTime); err != nil {
		return nil, err
	}
	if req.Category != nil && *req.Category != "" && !req.Category.IsValid() {
		return nil, entities.ErrInvalidCategory
	}
	if req.Recurrence != nil && *req.Recurrence != "" && !req.Recurrence.IsValid() {
		return nil, entities.ErrInvalidRecurrence
	}

	event, err := s.eventRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event; deleting an unknown id is a no-op.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// validateEventTimes checks optional start and end times. A pointer to the
// empty string clears the field and passes.
func validateEventTimes(start, end *string) error {
	if start != nil && *start != "" && !entities.ValidTime(*start) {
		return entities.ErrInvalidTime
	}
	if end != nil && *end != "" && !entities.ValidTime(*end) {
		return entities.ErrInvalidTime
	}
	return nil
}
