package services

import (
	"context"
	"fmt"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// SessionService handles focus session history and the wellness rollup.
type SessionService struct {
	sessionRepo ports.SessionRepository
	logger      *logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo ports.SessionRepository, appLogger *logger.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      appLogger,
	}
}

// ListSessions returns the append-only session log.
func (s *SessionService) ListSessions(ctx context.Context) ([]entities.FocusSession, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// RecordSession appends a completed session. Focus sessions also bump the
// per-day wellness rollup.
func (s *SessionService) RecordSession(ctx context.Context, req ports.RecordSessionRequest) (*entities.FocusSession, error) {
	if !entities.ValidDate(req.Date) {
		return nil, entities.ErrInvalidDate
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("unknown timer mode %q", req.Type)
	}

	session, err := s.sessionRepo.Add(ctx, req.Date, req.Duration, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	s.logger.Infow("Session recorded", "session_id", session.ID, "mode", session.Type, "duration", session.Duration)
	return session, nil
}

// Wellness returns the per-day focus rollup.
func (s *SessionService) Wellness(ctx context.Context) (*entities.WellnessData, error) {
	data, err := s.sessionRepo.Wellness(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wellness data: %w", err)
	}
	return data, nil
}
