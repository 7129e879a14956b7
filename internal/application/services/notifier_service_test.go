package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
	"github.com/zephyr-app/core/internal/ports"
)

type notifierFixture struct {
	svc           *NotifierService
	notifications *NotificationService
	taskRepo      ports.TaskRepository
	eventRepo     ports.EventRepository
	journalRepo   ports.JournalRepository
	settingsRepo  ports.SettingsRepository
	clock         *fakeClock
}

func newNotifierFixture(t *testing.T) *notifierFixture {
	t.Helper()

	mem := storage.NewMemory()
	log := logger.NewNop()
	cfg := config.NotifierConfig{
		Period:      time.Minute,
		DedupWindow: time.Minute,
		FireWindow:  2 * time.Minute,
		Retention:   24 * time.Hour,
	}

	taskRepo := repository.NewTaskRepository(mem, log)
	eventRepo := repository.NewEventRepository(mem, log)
	journalRepo := repository.NewJournalRepository(mem, log)
	settingsRepo := repository.NewSettingsRepository(mem, log)
	notificationRepo := repository.NewNotificationRepository(mem, log, cfg.Retention)
	notifications := NewNotificationService(notificationRepo, cfg, log, nil)

	svc := NewNotifierService(taskRepo, eventRepo, journalRepo, settingsRepo, notifications, cfg, log, nil)
	clock := &fakeClock{t: time.Date(2026, 8, 29, 9, 31, 0, 0, time.UTC)}
	svc.now = clock.now
	svc.loc = time.UTC

	return &notifierFixture{
		svc:           svc,
		notifications: notifications,
		taskRepo:      taskRepo,
		eventRepo:     eventRepo,
		journalRepo:   journalRepo,
		settingsRepo:  settingsRepo,
		clock:         clock,
	}
}

func (fx *notifierFixture) feed(t *testing.T) []entities.Notification {
	t.Helper()
	list, err := fx.notifications.ListNotifications(context.Background())
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	return list
}

func (fx *notifierFixture) titles(t *testing.T) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	for _, n := range fx.feed(t) {
		out[n.Title] = true
	}
	return out
}

func TestNotifier_TaskRules(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	due := func(date string) *string { return &date }
	for _, c := range []struct {
		title string
		date  string
	}{
		{"pay rent", "2026-08-27"},
		{"dentist", "2026-08-29"},
		{"tax filing", "2026-08-31"},
		{"vacation prep", "2026-09-20"},
	} {
		if _, err := fx.taskRepo.Create(ctx, ports.CreateTaskRequest{Title: c.title, DueDate: due(c.date)}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Completed tasks never fire, however overdue.
	doneTask, err := fx.taskRepo.Create(ctx, ports.CreateTaskRequest{Title: "shipped", DueDate: due("2026-08-01")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := fx.taskRepo.Toggle(ctx, doneTask.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	titles := fx.titles(t)
	for _, want := range []string{
		"Overdue: pay rent",
		"Due today: dentist",
		"Due soon: tax filing",
	} {
		if !titles[want] {
			t.Errorf("missing notification %q, feed has %v", want, titles)
		}
	}
	for title := range titles {
		if strings.Contains(title, "vacation prep") || strings.Contains(title, "shipped") {
			t.Errorf("unexpected notification %q", title)
		}
	}
}

func TestNotifier_PassIsIdempotentWithinDay(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	date := "2026-08-29"
	if _, err := fx.taskRepo.Create(ctx, ports.CreateTaskRequest{Title: "dentist", DueDate: &date}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("first RunPass failed: %v", err)
	}
	first := len(fx.feed(t))

	fx.clock.advance(time.Minute)
	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("second RunPass failed: %v", err)
	}

	if got := len(fx.feed(t)); got != first {
		t.Fatalf("feed grew from %d to %d on a repeated pass", first, got)
	}
}

func TestNotifier_EventRules(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	startsSoon := "09:45"
	tooFarOut := "12:00"
	for _, c := range []struct {
		title    string
		time     *string
		allDay   bool
		reminder bool
	}{
		{"standup", &startsSoon, false, true},
		{"lunch", &tooFarOut, false, true},
		{"conference", nil, true, true},
		{"silent", &startsSoon, false, false},
	} {
		if _, err := fx.eventRepo.Create(ctx, ports.CreateEventRequest{
			Title:    c.title,
			Date:     "2026-08-29",
			Time:     c.time,
			AllDay:   c.allDay,
			Reminder: c.reminder,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	titles := fx.titles(t)
	if !titles["Upcoming: standup"] {
		t.Errorf("missing lead-time notification, feed has %v", titles)
	}
	if !titles["Today: conference"] {
		t.Errorf("missing all-day notification, feed has %v", titles)
	}
	for title := range titles {
		if strings.Contains(title, "lunch") || strings.Contains(title, "silent") {
			t.Errorf("unexpected notification %q", title)
		}
	}
}

func TestNotifier_EventStartNotification(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	// The fixture clock reads 09:31. "at start" fires at 09:31 exactly and
	// at 09:30 one minute in. 09:28 already fell out of the window, and in
	// all three cases the lead threshold passed a full lead ago, so no
	// "Upcoming" may fire.
	atStart := "09:31"
	justStarted := "09:30"
	longStarted := "09:28"
	for _, c := range []struct {
		title string
		time  *string
	}{
		{"standup", &atStart},
		{"retro", &justStarted},
		{"kickoff", &longStarted},
	} {
		if _, err := fx.eventRepo.Create(ctx, ports.CreateEventRequest{
			Title:    c.title,
			Date:     "2026-08-29",
			Time:     c.time,
			Reminder: true,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	titles := fx.titles(t)
	if !titles["Starting now: standup"] {
		t.Errorf("event at the current instant did not fire, feed has %v", titles)
	}
	if !titles["Starting now: retro"] {
		t.Errorf("event one minute into the window did not fire, feed has %v", titles)
	}
	for title := range titles {
		if strings.Contains(title, "kickoff") {
			t.Errorf("event past the window fired: %q", title)
		}
		if strings.HasPrefix(title, "Upcoming:") {
			t.Errorf("lead-time notification fired past its window: %q", title)
		}
	}
}

func TestNotifier_BothEventNotificationsWithinOneDay(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	// First pass inside the lead window, second pass at the start. The
	// same event produces both notifications, each exactly once.
	start := "09:45"
	if _, err := fx.eventRepo.Create(ctx, ports.CreateEventRequest{
		Title:    "standup",
		Date:     "2026-08-29",
		Time:     &start,
		Reminder: true,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("first RunPass failed: %v", err)
	}
	fx.clock.advance(14 * time.Minute)
	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("second RunPass failed: %v", err)
	}

	titles := fx.titles(t)
	if !titles["Upcoming: standup"] || !titles["Starting now: standup"] {
		t.Fatalf("expected both notifications, feed has %v", titles)
	}
	if got := len(fx.feed(t)); got != 2 {
		t.Fatalf("feed length = %d, want 2", got)
	}
}

func TestNotifier_RecurringEventFiresOnOccurrence(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	// The fixture clock is on a Saturday; the event recurs weekly from a
	// Saturday two weeks earlier.
	startsSoon := "09:45"
	if _, err := fx.eventRepo.Create(ctx, ports.CreateEventRequest{
		Title:      "yoga",
		Date:       "2026-08-15",
		Time:       &startsSoon,
		Recurrence: entities.RecurrenceWeekly,
		Reminder:   true,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}

	if !fx.titles(t)["Upcoming: yoga"] {
		t.Errorf("recurring occurrence did not fire, feed has %v", fx.titles(t))
	}
}

func TestNotifier_JournalReminder(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	if err := fx.settingsRepo.PutNotificationSettings(ctx, entities.NotificationSettings{
		JournalEnabled:      true,
		JournalReminderTime: "09:30",
	}); err != nil {
		t.Fatalf("PutNotificationSettings failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if !fx.titles(t)["Journal reminder"] {
		t.Fatalf("reminder did not fire at 09:31 for a 09:30 setting, feed has %v", fx.titles(t))
	}
}

func TestNotifier_JournalReminderSkippedWhenEntryExists(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	if err := fx.settingsRepo.PutNotificationSettings(ctx, entities.NotificationSettings{
		JournalEnabled:      true,
		JournalReminderTime: "09:30",
	}); err != nil {
		t.Fatalf("PutNotificationSettings failed: %v", err)
	}
	if _, err := fx.journalRepo.Upsert(ctx, ports.UpsertJournalRequest{
		Date: "2026-08-29", Content: "done already", Mood: entities.MoodCalm,
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if fx.titles(t)["Journal reminder"] {
		t.Fatal("reminder fired despite an existing entry")
	}
}

func TestNotifier_DisabledRuleSetsAreSkipped(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	if err := fx.settingsRepo.PutNotificationSettings(ctx, entities.NotificationSettings{
		DueSoonDays:         3,
		EventLeadMinutes:    15,
		JournalReminderTime: "09:30",
	}); err != nil {
		t.Fatalf("PutNotificationSettings failed: %v", err)
	}

	date := "2026-08-29"
	if _, err := fx.taskRepo.Create(ctx, ports.CreateTaskRequest{Title: "dentist", DueDate: &date}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := fx.svc.RunPass(ctx); err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if total := len(fx.feed(t)); total != 0 {
		t.Fatalf("disabled rule sets produced %d notifications", total)
	}
}

func TestNotifier_MetricsCounters(t *testing.T) {
	mem := storage.NewMemory()
	log := logger.NewNop()
	registry := prometheus.NewRegistry()
	cfg := config.NotifierConfig{
		Period:      time.Minute,
		DedupWindow: time.Minute,
		FireWindow:  2 * time.Minute,
		Retention:   24 * time.Hour,
	}

	taskRepo := repository.NewTaskRepository(mem, log)
	eventRepo := repository.NewEventRepository(mem, log)
	journalRepo := repository.NewJournalRepository(mem, log)
	settingsRepo := repository.NewSettingsRepository(mem, log)
	notificationRepo := repository.NewNotificationRepository(mem, log, cfg.Retention)
	notifications := NewNotificationService(notificationRepo, cfg, log, registry)
	svc := NewNotifierService(taskRepo, eventRepo, journalRepo, settingsRepo, notifications, cfg, log, registry)

	clock := &fakeClock{t: time.Date(2026, 8, 29, 9, 31, 0, 0, time.UTC)}
	svc.now = clock.now
	svc.loc = time.UTC

	ctx := context.Background()
	date := "2026-08-29"
	if _, err := taskRepo.Create(ctx, ports.CreateTaskRequest{Title: "dentist", DueDate: &date}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.RunPass(ctx); err != nil {
		t.Fatalf("first RunPass failed: %v", err)
	}
	if err := svc.RunPass(ctx); err != nil {
		t.Fatalf("second RunPass failed: %v", err)
	}

	if got := testutil.ToFloat64(svc.passes); got != 2 {
		t.Errorf("pass counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(notifications.emitted.WithLabelValues("task")); got != 1 {
		t.Errorf("emitted counter for tasks = %v, want 1", got)
	}
}

func TestNotifier_StartReplacesAndStops(t *testing.T) {
	fx := newNotifierFixture(t)
	ctx := context.Background()

	fx.svc.Start(ctx)
	fx.svc.Start(ctx)
	if !fx.svc.Running() {
		t.Fatal("expected notifier running after Start")
	}

	fx.svc.Stop()
	if fx.svc.Running() {
		t.Fatal("expected notifier stopped after one Stop")
	}
	// Stopping again is a no-op.
	fx.svc.Stop()
}
