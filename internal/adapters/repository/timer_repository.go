package repository

import (
	"context"
	"fmt"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TimerRepositoryImpl persists the Pomodoro timer snapshot.
type TimerRepositoryImpl struct {
	kv     ports.KV
	logger *logger.Logger
}

// NewTimerRepository creates a new timer state repository
func NewTimerRepository(kv ports.KV, appLogger *logger.Logger) ports.TimerRepository {
	return &TimerRepositoryImpl{kv: kv, logger: appLogger.WithComponent("timer")}
}

// Get returns the stored snapshot, or nil when none exists yet.
func (r *TimerRepositoryImpl) Get(ctx context.Context) (*entities.TimerState, error) {
	var state entities.TimerState
	found, err := r.kv.Read(ctx, KeyTimerState, &state)
	if err != nil {
		return nil, fmt.Errorf("read timer state: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &state, nil
}

func (r *TimerRepositoryImpl) Put(ctx context.Context, state entities.TimerState) error {
	if err := r.kv.Write(ctx, KeyTimerState, state); err != nil {
		return fmt.Errorf("write timer state: %w", err)
	}
	return nil
}
