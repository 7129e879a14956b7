package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// SessionRepositoryImpl implements the SessionRepository interface. The
// session log is append-only: records are never updated or removed.
type SessionRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewSessionRepository creates a new focus session repository
func NewSessionRepository(kv ports.KV, appLogger *logger.Logger) ports.SessionRepository {
	return &SessionRepositoryImpl{kv: kv, logger: appLogger.WithComponent("sessions")}
}

func (r *SessionRepositoryImpl) List(ctx context.Context) ([]entities.FocusSession, error) {
	sessions, err := loadItems[entities.FocusSession](ctx, r.kv, KeySessions)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Add appends a session record and bumps the wellness-data totals for its
// day. The two blobs live under separate keys, so the writes are sequential,
// not atomic.
func (r *SessionRepositoryImpl) Add(ctx context.Context, date string, duration int, mode entities.TimerMode) (*entities.FocusSession, error) {
	sessions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	session := entities.FocusSession{
		ID:        entities.NewID(),
		Date:      date,
		Duration:  duration,
		Type:      mode,
		CreatedAt: time.Now(),
	}

	sessions = append(sessions, session)
	if err := saveItems(ctx, r.kv, KeySessions, sessions); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}

	if mode == entities.ModeFocus {
		if err := r.bumpWellness(ctx, date, duration); err != nil {
			// The session record is already durable; losing a wellness bump
			// degrades a derived total, not the log.
			r.logger.Warnw("Failed to update wellness data", "date", date, "error", err.Error())
		}
	}

	return &session, nil
}

func (r *SessionRepositoryImpl) Wellness(ctx context.Context) (*entities.WellnessData, error) {
	var data entities.WellnessData
	found, err := r.kv.Read(ctx, KeyWellness, &data)
	if err != nil {
		return nil, fmt.Errorf("read wellness data: %w", err)
	}
	if !found || data.Days == nil {
		data.Days = make(map[string]entities.WellnessDay)
	}
	return &data, nil
}

func (r *SessionRepositoryImpl) bumpWellness(ctx context.Context, date string, duration int) error {
	data, err := r.Wellness(ctx)
	if err != nil {
		return err
	}

	day := data.Days[date]
	day.Sessions++
	day.FocusSeconds += duration
	data.Days[date] = day
	data.UpdatedAt = time.Now()

	return r.kv.Write(ctx, KeyWellness, data)
}
