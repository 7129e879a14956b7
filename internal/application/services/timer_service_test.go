package services

import (
	"context"
	"testing"
	"time"

	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
)

type timerFixture struct {
	svc      *TimerService
	sessions func(t *testing.T) []entities.FocusSession
	clock    *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTimerFixture(t *testing.T) *timerFixture {
	t.Helper()

	mem := storage.NewMemory()
	log := logger.NewNop()
	timerRepo := repository.NewTimerRepository(mem, log)
	sessionRepo := repository.NewSessionRepository(mem, log)
	settingsRepo := repository.NewSettingsRepository(mem, log)
	notificationRepo := repository.NewNotificationRepository(mem, log, 24*time.Hour)
	notifications := NewNotificationService(notificationRepo, config.NotifierConfig{DedupWindow: time.Minute}, log, nil)

	svc := NewTimerService(timerRepo, sessionRepo, settingsRepo, notifications, log)
	clock := &fakeClock{t: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.now

	return &timerFixture{
		svc: svc,
		sessions: func(t *testing.T) []entities.FocusSession {
			t.Helper()
			sessions, err := sessionRepo.List(context.Background())
			if err != nil {
				t.Fatalf("List sessions failed: %v", err)
			}
			return sessions
		},
		clock: clock,
	}
}

func TestTimer_StateWithoutHistoryIsIdleFocus(t *testing.T) {
	fx := newTimerFixture(t)

	state, err := fx.svc.State(context.Background())
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.Mode != entities.ModeFocus || state.Status != entities.TimerIdle {
		t.Errorf("state = %+v, want idle focus", state)
	}
	if state.RemainingSeconds != 25*60 {
		t.Errorf("remaining = %d, want %d", state.RemainingSeconds, 25*60)
	}
}

func TestTimer_StartRejectsUnknownMode(t *testing.T) {
	fx := newTimerFixture(t)

	if _, err := fx.svc.Start(context.Background(), "sprint"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestTimer_RecoverySubtractsElapsed(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	fx.clock.advance(10 * time.Minute)

	state, err := fx.svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.Status != entities.TimerRunning {
		t.Fatalf("status = %v, want running", state.Status)
	}
	if state.RemainingSeconds != 15*60 {
		t.Errorf("remaining = %d, want %d", state.RemainingSeconds, 15*60)
	}
}

func TestTimer_ExpiredFocusCompletesExactlyOnce(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Simulate the process being away past the end of the session.
	fx.clock.advance(26 * time.Minute)

	state, err := fx.svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.Status != entities.TimerIdle || state.Mode != entities.ModeShortBreak {
		t.Errorf("state = %+v, want idle short break", state)
	}
	if state.RemainingSeconds != 5*60 {
		t.Errorf("remaining = %d, want %d", state.RemainingSeconds, 5*60)
	}
	if state.CompletedFocusCount != 1 {
		t.Errorf("focus count = %d, want 1", state.CompletedFocusCount)
	}

	sessions := fx.sessions(t)
	if len(sessions) != 1 {
		t.Fatalf("session log = %d records, want 1", len(sessions))
	}
	if sessions[0].Type != entities.ModeFocus || sessions[0].Duration != 25*60 {
		t.Errorf("session = %+v", sessions[0])
	}

	// A second read must not settle the same session again.
	if _, err := fx.svc.State(ctx); err != nil {
		t.Fatalf("second State failed: %v", err)
	}
	if got := len(fx.sessions(t)); got != 1 {
		t.Fatalf("session log = %d records after reread, want 1", got)
	}
}

func TestTimer_LongBreakEveryFourthFocus(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		fx.clock.advance(26 * time.Minute)
		state, err := fx.svc.State(ctx)
		if err != nil {
			t.Fatalf("State failed: %v", err)
		}

		want := entities.ModeShortBreak
		if i == 3 {
			want = entities.ModeLongBreak
		}
		if state.Mode != want {
			t.Fatalf("after focus %d next mode = %v, want %v", i+1, state.Mode, want)
		}
	}
}

func TestTimer_PauseFreezesRemaining(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	fx.clock.advance(5 * time.Minute)

	state, err := fx.svc.Pause(ctx)
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if state.Status != entities.TimerPaused {
		t.Fatalf("status = %v, want paused", state.Status)
	}
	if state.RemainingSeconds != 20*60 {
		t.Errorf("remaining = %d, want %d", state.RemainingSeconds, 20*60)
	}

	// Paused time does not drain.
	fx.clock.advance(time.Hour)
	state, err = fx.svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.RemainingSeconds != 20*60 {
		t.Errorf("remaining after pause = %d, want %d", state.RemainingSeconds, 20*60)
	}
}

func TestTimer_SwitchingModeResetsDuration(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	fx.clock.advance(5 * time.Minute)

	state, err := fx.svc.Start(ctx, entities.ModeShortBreak)
	if err != nil {
		t.Fatalf("Start short break failed: %v", err)
	}
	if state.Mode != entities.ModeShortBreak || state.Status != entities.TimerRunning {
		t.Errorf("state = %+v, want running short break", state)
	}
	if state.RemainingSeconds != 5*60 {
		t.Errorf("remaining = %d, want full short break", state.RemainingSeconds)
	}
}

func TestTimer_ResetRestoresFullDuration(t *testing.T) {
	fx := newTimerFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Start(ctx, entities.ModeFocus); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	fx.clock.advance(5 * time.Minute)

	state, err := fx.svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if state.Status != entities.TimerIdle || state.RemainingSeconds != 25*60 {
		t.Errorf("state = %+v, want idle with full duration", state)
	}
}
