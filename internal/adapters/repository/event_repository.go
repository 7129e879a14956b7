package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// EventRepositoryImpl implements the EventRepository interface
type EventRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewEventRepository creates a new calendar event repository
func NewEventRepository(kv ports.KV, appLogger *logger.Logger) ports.EventRepository {
	return &EventRepositoryImpl{kv: kv, logger: appLogger.WithComponent("events")}
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]entities.CalendarEvent, error) {
	events, err := loadItems[entities.CalendarEvent](ctx, r.kv, KeyEvents)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepositoryImpl) Get(ctx context.Context, id string) (*entities.CalendarEvent, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, entities.ErrEventNotFound
}

func (r *EventRepositoryImpl) Create(ctx context.Context, req ports.CreateEventRequest) (*entities.CalendarEvent, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := entities.CalendarEvent{
		ID:          entities.NewID(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        normalizeRef(req.Time),
		EndTime:     normalizeRef(req.EndTime),
		AllDay:      req.AllDay,
		Category:    req.Category,
		Location:    req.Location,
		Recurrence:  req.Recurrence,
		Reminder:    req.Reminder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if event.Category == "" {
		event.Category = entities.CategoryPersonal
	}
	if event.Recurrence == "" {
		event.Recurrence = entities.RecurrenceNone
	}

	events = append(events, event)
	if err := saveItems(ctx, r.kv, KeyEvents, events); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateEventRequest) (*entities.CalendarEvent, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range events {
		if events[i].ID != id {
			continue
		}

		event := &events[i]

		if req.Title != nil {
			event.Title = *req.Title
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Date != nil {
			event.Date = *req.Date
		}
		if req.Time != nil {
			event.Time = normalizeRef(req.Time)
		}
		if req.EndTime != nil {
			event.EndTime = normalizeRef(req.EndTime)
		}
		if req.AllDay != nil {
			event.AllDay = *req.AllDay
		}
		if req.Category != nil {
			event.Category = *req.Category
		}
		if req.Location != nil {
			event.Location = *req.Location
		}
		if req.Recurrence != nil {
			event.Recurrence = *req.Recurrence
		}
		if req.Reminder != nil {
			event.Reminder = *req.Reminder
		}
		event.UpdatedAt = time.Now()

		if err := saveItems(ctx, r.kv, KeyEvents, events); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		return event, nil
	}

	return nil, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id string) error {
	events, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := events[:0]
	removed := false
	for _, e := range events {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}

	if !removed {
		return nil
	}

	if err := saveItems(ctx, r.kv, KeyEvents, kept); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
