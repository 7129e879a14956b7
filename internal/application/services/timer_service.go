package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TimerService drives the Pomodoro timer. The persisted state carries no
// ticking goroutine; the remaining time is recovered against the wall clock
// on every read, so a session that ran out while the process was down is
// completed exactly once on the next load.
type TimerService struct {
	timerRepo     ports.TimerRepository
	sessionRepo   ports.SessionRepository
	settingsRepo  ports.SettingsRepository
	notifications *NotificationService
	logger        *logger.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewTimerService creates a new timer service
func NewTimerService(
	timerRepo ports.TimerRepository,
	sessionRepo ports.SessionRepository,
	settingsRepo ports.SettingsRepository,
	notifications *NotificationService,
	appLogger *logger.Logger,
) *TimerService {
	return &TimerService{
		timerRepo:     timerRepo,
		sessionRepo:   sessionRepo,
		settingsRepo:  settingsRepo,
		notifications: notifications,
		logger:        appLogger,
		now:           time.Now,
	}
}

// State returns the current timer state with the remaining time recovered
// against the wall clock. The recovered state is persisted so repeated reads
// never complete the same session twice.
func (s *TimerService) State(ctx context.Context) (*entities.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAndRecover(ctx)
}

// Start begins or resumes the timer. An empty mode keeps the current one; a
// different mode resets the timer to that mode's full duration first.
// Starting an already running timer is a no-op.
func (s *TimerService) Start(ctx context.Context, mode entities.TimerMode) (*entities.TimerState, error) {
	if mode != "" && !mode.IsValid() {
		return nil, fmt.Errorf("unknown timer mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadAndRecover(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.timerSettings(ctx)
	if err != nil {
		return nil, err
	}

	if mode != "" && mode != state.Mode {
		state.Mode = mode
		state.Status = entities.TimerIdle
		state.RemainingSeconds = int(settings.Duration(mode).Seconds())
	}
	if state.Status == entities.TimerRunning {
		return state, nil
	}
	if state.Status == entities.TimerIdle {
		state.RemainingSeconds = int(settings.Duration(state.Mode).Seconds())
	}

	now := s.now()
	state.Status = entities.TimerRunning
	state.StartedAt = &now
	state.UpdatedAt = now

	if err := s.timerRepo.Put(ctx, *state); err != nil {
		return nil, fmt.Errorf("failed to save timer state: %w", err)
	}
	s.logger.Infow("Timer started", "mode", state.Mode, "remaining_seconds", state.RemainingSeconds)
	return state, nil
}

// Pause freezes a running timer at its recovered remaining time. Pausing a
// timer that is not running is a no-op.
func (s *TimerService) Pause(ctx context.Context) (*entities.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadAndRecover(ctx)
	if err != nil {
		return nil, err
	}
	if state.Status != entities.TimerRunning {
		return state, nil
	}

	state.Status = entities.TimerPaused
	state.StartedAt = nil
	state.UpdatedAt = s.now()

	if err := s.timerRepo.Put(ctx, *state); err != nil {
		return nil, fmt.Errorf("failed to save timer state: %w", err)
	}
	return state, nil
}

// Reset stops the timer and restores the current mode's full duration.
func (s *TimerService) Reset(ctx context.Context) (*entities.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadAndRecover(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.timerSettings(ctx)
	if err != nil {
		return nil, err
	}

	state.Status = entities.TimerIdle
	state.StartedAt = nil
	state.RemainingSeconds = int(settings.Duration(state.Mode).Seconds())
	state.UpdatedAt = s.now()

	if err := s.timerRepo.Put(ctx, *state); err != nil {
		return nil, fmt.Errorf("failed to save timer state: %w", err)
	}
	return state, nil
}

// loadAndRecover reads the persisted state, falls back to the default idle
// focus timer, and settles any elapsed wall-clock time. Callers hold s.mu.
func (s *TimerService) loadAndRecover(ctx context.Context) (*entities.TimerState, error) {
	settings, err := s.timerSettings(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.timerRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load timer state: %w", err)
	}
	if state == nil {
		def := entities.DefaultTimerState(settings, s.now())
		return &def, nil
	}
	if state.Status != entities.TimerRunning {
		return state, nil
	}

	now := s.now()
	elapsed := int(now.Sub(state.UpdatedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	if elapsed < state.RemainingSeconds {
		state.RemainingSeconds -= elapsed
		state.UpdatedAt = now
	} else {
		s.complete(ctx, state, settings, now)
	}

	if err := s.timerRepo.Put(ctx, *state); err != nil {
		return nil, fmt.Errorf("failed to save timer state: %w", err)
	}
	return state, nil
}

// complete settles a session that ran to zero: records it, advances the
// Pomodoro cycle, and leaves the timer idle on the next mode. Every
// LongBreakInterval-th completed focus earns the long break.
func (s *TimerService) complete(ctx context.Context, state *entities.TimerState, settings entities.TimerSettings, now time.Time) {
	finished := state.Mode
	seconds := int(settings.Duration(finished).Seconds())
	minutes := seconds / 60

	if _, err := s.sessionRepo.Add(ctx, now.Format(entities.DateLayout), seconds, finished); err != nil {
		s.logger.Warnw("Failed to record completed session", "mode", finished, "error", err)
	}

	next := entities.ModeFocus
	if finished == entities.ModeFocus {
		state.CompletedFocusCount++
		interval := settings.LongBreakInterval
		if interval < 1 {
			interval = 1
		}
		if state.CompletedFocusCount%interval == 0 {
			next = entities.ModeLongBreak
		} else {
			next = entities.ModeShortBreak
		}
	}

	state.Mode = next
	state.Status = entities.TimerIdle
	state.StartedAt = nil
	state.RemainingSeconds = int(settings.Duration(next).Seconds())
	state.UpdatedAt = now

	title := "Break over"
	message := "Time to get back to focus."
	if finished == entities.ModeFocus {
		title = "Focus session complete"
		message = fmt.Sprintf("You focused for %d minutes. Take a break.", minutes)
	}
	if _, err := s.notifications.Notify(ctx, ports.CreateNotificationRequest{
		Type:    entities.NotificationTimer,
		Title:   title,
		Message: message,
	}); err != nil {
		s.logger.Warnw("Failed to create timer notification", "error", err)
	}

	s.logger.Infow("Timer session completed", "mode", finished, "next_mode", next, "focus_count", state.CompletedFocusCount)
}

// timerSettings loads the timer block from settings, with defaults applied
// by the repository when nothing is stored.
func (s *TimerService) timerSettings(ctx context.Context) (entities.TimerSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entities.TimerSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.Timer, nil
}
