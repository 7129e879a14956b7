package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// NotifierService is the polling notifier. It runs one detection pass
// immediately on Start and then one per period, scanning tasks, events and
// the journal against their notification rules. Starting an already running
// notifier replaces the loop instead of stacking a second one.
type NotifierService struct {
	taskRepo      ports.TaskRepository
	eventRepo     ports.EventRepository
	journalRepo   ports.JournalRepository
	settingsRepo  ports.SettingsRepository
	notifications *NotificationService
	cfg           config.NotifierConfig
	logger        *logger.Logger
	passes        prometheus.Counter

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	now func() time.Time
	loc *time.Location
}

// NewNotifierService creates a new notifier service. The registry may be nil
// when metrics are disabled.
func NewNotifierService(
	taskRepo ports.TaskRepository,
	eventRepo ports.EventRepository,
	journalRepo ports.JournalRepository,
	settingsRepo ports.SettingsRepository,
	notifications *NotificationService,
	cfg config.NotifierConfig,
	appLogger *logger.Logger,
	registry *prometheus.Registry,
) *NotifierService {
	s := &NotifierService{
		taskRepo:      taskRepo,
		eventRepo:     eventRepo,
		journalRepo:   journalRepo,
		settingsRepo:  settingsRepo,
		notifications: notifications,
		cfg:           cfg,
		logger:        appLogger.WithComponent("notifier"),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zephyr_notifier_passes_total",
			Help: "Total number of notifier detection passes",
		}),
		now: time.Now,
		loc: time.Local,
	}

	if registry != nil {
		registry.MustRegister(s.passes)
	}

	return s
}

// Start launches the polling loop. Any previously running loop is stopped
// first, so repeated Start calls never multiply the pass rate.
func (s *NotifierService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(ctx, s.stop, s.done)

	s.logger.Infow("Notifier started", "period", s.cfg.Period)
}

// Stop halts the polling loop and waits for the in-flight pass to finish.
// Stopping an idle notifier is a no-op.
func (s *NotifierService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Running reports whether the polling loop is active.
func (s *NotifierService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *NotifierService) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
	s.logger.Infow("Notifier stopped")
}

func (s *NotifierService) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if err := s.RunPass(ctx); err != nil {
		s.logger.Warnw("Notifier pass failed", "error", err)
	}

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunPass(ctx); err != nil {
				s.logger.Warnw("Notifier pass failed", "error", err)
			}
		}
	}
}

// RunPass executes one detection pass over all rule sets. Rules that
// already produced a notification today (or within the fire window for
// time-based rules) are skipped, so a pass is safe to run back to back.
func (s *NotifierService) RunPass(ctx context.Context) error {
	s.passes.Inc()

	prefs, err := s.settingsRepo.GetNotificationSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notification settings: %w", err)
	}

	seen, err := s.seenToday(ctx)
	if err != nil {
		return err
	}

	now := s.now().In(s.loc)
	today := now.Format(entities.DateLayout)

	if prefs.TasksEnabled {
		if err := s.passTasks(ctx, seen, today, prefs.DueSoonDays); err != nil {
			return err
		}
	}
	if prefs.EventsEnabled {
		if err := s.passEvents(ctx, seen, now, today, prefs.EventLeadMinutes); err != nil {
			return err
		}
	}
	if prefs.JournalEnabled {
		if err := s.passJournal(ctx, seen, now, today, prefs.JournalReminderTime); err != nil {
			return err
		}
	}
	return nil
}

// seenToday indexes the identities of notifications created on the current
// calendar day. Each rule fires at most once per day per record.
func (s *NotifierService) seenToday(ctx context.Context) (map[string]bool, error) {
	existing, err := s.notifications.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.loc).Format(entities.DateLayout)
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		if n.CreatedAt.In(s.loc).Format(entities.DateLayout) == today {
			seen[identity(n.Type, n.Title)] = true
		}
	}
	return seen, nil
}

func identity(t entities.NotificationType, title string) string {
	return string(t) + "\x00" + title
}

func (s *NotifierService) passTasks(ctx context.Context, seen map[string]bool, today string, dueSoonDays int) error {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	for i := range tasks {
		t := &tasks[i]
		var title, message string
		switch {
		case t.IsOverdue(today):
			title = "Overdue: " + t.Title
			message = fmt.Sprintf("This task was due on %s.", *t.DueDate)
		case t.IsDueToday(today):
			title = "Due today: " + t.Title
			message = "This task is due today."
		case t.IsDueWithin(today, dueSoonDays):
			title = "Due soon: " + t.Title
			message = fmt.Sprintf("This task is due on %s.", *t.DueDate)
		default:
			continue
		}

		if err := s.emit(ctx, seen, entities.NotificationTask, title, message, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotifierService) passEvents(ctx context.Context, seen map[string]bool, now time.Time, today string, leadMinutes int) error {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	for i := range events {
		e := &events[i]
		if !e.Reminder || !e.OccursOn(today) {
			continue
		}
		if e.AllDay || e.Time == nil {
			// All-day reminders fire on the first pass of the day.
			title := "Today: " + e.Title
			if err := s.emit(ctx, seen, entities.NotificationEvent, title, "This event is on today.", e.ID); err != nil {
				return err
			}
			continue
		}

		occurrence := entities.CalendarEvent{Date: today, Time: e.Time}
		start, ok := occurrence.StartAt(s.loc)
		if !ok {
			continue
		}

		// Timed events notify twice: once ahead of the start by the lead
		// time, once at the start itself.
		threshold := start.Add(-time.Duration(leadMinutes) * time.Minute)
		if !now.Before(threshold) && now.Sub(threshold) < s.cfg.FireWindow {
			title := "Upcoming: " + e.Title
			message := fmt.Sprintf("This event starts at %s.", *e.Time)
			if err := s.emit(ctx, seen, entities.NotificationEvent, title, message, e.ID); err != nil {
				return err
			}
		}
		if !now.Before(start) && now.Sub(start) < s.cfg.FireWindow {
			title := "Starting now: " + e.Title
			if err := s.emit(ctx, seen, entities.NotificationEvent, title, "This event is starting now.", e.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *NotifierService) passJournal(ctx context.Context, seen map[string]bool, now time.Time, today, reminderTime string) error {
	if !entities.ValidTime(reminderTime) {
		return nil
	}
	at, err := time.ParseInLocation(entities.DateLayout+" "+entities.TimeLayout, today+" "+reminderTime, s.loc)
	if err != nil {
		return nil
	}
	if now.Before(at) || now.Sub(at) >= s.cfg.FireWindow {
		return nil
	}

	entry, err := s.journalRepo.GetByDate(ctx, today)
	if err != nil && !errors.Is(err, entities.ErrEntryNotFound) {
		return fmt.Errorf("failed to check journal entry: %w", err)
	}
	if entry != nil {
		return nil
	}

	return s.emit(ctx, seen, entities.NotificationJournal, "Journal reminder", "You have not written a journal entry today.", "")
}

// emit creates one notification unless its identity already fired today.
// The dedup limiter inside the notification service still guards against
// concurrent passes.
func (s *NotifierService) emit(ctx context.Context, seen map[string]bool, typ entities.NotificationType, title, message, refID string) error {
	id := identity(typ, title)
	if seen[id] {
		return nil
	}

	var metadata map[string]string
	if refID != "" {
		metadata = map[string]string{"refId": refID}
	}
	if _, err := s.notifications.Notify(ctx, ports.CreateNotificationRequest{
		Type:     typ,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	seen[id] = true
	return nil
}
