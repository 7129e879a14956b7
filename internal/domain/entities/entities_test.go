package entities

import (
	"strings"
	"testing"
	"time"
)

func TestNewID_UniqueAndOrdered(t *testing.T) {
	a := NewID()
	b := NewID()

	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if !strings.Contains(a, "-") {
		t.Fatalf("expected timestamp-suffix format, got %q", a)
	}
}

func TestSetCompleted_StampsAndClearsCompletedAt(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	task := Task{Title: "write report"}

	task.SetCompleted(true, now)
	if !task.Completed {
		t.Fatal("expected task to be completed")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completedAt %v, got %v", now, task.CompletedAt)
	}

	// Completing an already-completed task keeps the original stamp.
	later := now.Add(time.Hour)
	task.SetCompleted(true, later)
	if !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completedAt unchanged, got %v", task.CompletedAt)
	}

	task.SetCompleted(false, later)
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("expected cleared completion, got completed=%v completedAt=%v", task.Completed, task.CompletedAt)
	}
}

func TestTaskDueHelpers(t *testing.T) {
	today := "2026-08-29"
	due := func(d string) *string { return &d }

	tests := []struct {
		name     string
		task     Task
		overdue  bool
		dueToday bool
		dueSoon  bool
	}{
		{"no due date", Task{}, false, false, false},
		{"overdue", Task{DueDate: due("2026-08-28")}, true, false, false},
		{"due today", Task{DueDate: due("2026-08-29")}, false, true, false},
		{"due tomorrow", Task{DueDate: due("2026-08-30")}, false, false, true},
		{"due past window", Task{DueDate: due("2026-09-10")}, false, false, false},
		{"completed overdue", Task{DueDate: due("2026-08-01"), Completed: true}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(today); got != tt.overdue {
				t.Errorf("IsOverdue = %v, want %v", got, tt.overdue)
			}
			if got := tt.task.IsDueToday(today); got != tt.dueToday {
				t.Errorf("IsDueToday = %v, want %v", got, tt.dueToday)
			}
			if got := tt.task.IsDueWithin(today, 3); got != tt.dueSoon {
				t.Errorf("IsDueWithin = %v, want %v", got, tt.dueSoon)
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityHigh.Rank() <= PriorityMedium.Rank() || PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Fatal("expected high > medium > low")
	}
	if Priority("bogus").Rank() >= PriorityLow.Rank() {
		t.Fatal("expected unknown priority below low")
	}
}

func TestTimerSettingsDuration(t *testing.T) {
	ts := TimerSettings{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4}

	if got := ts.Duration(ModeFocus); got != 25*time.Minute {
		t.Errorf("focus duration = %v", got)
	}
	if got := ts.Duration(ModeShortBreak); got != 5*time.Minute {
		t.Errorf("short break duration = %v", got)
	}
	if got := ts.Duration(ModeLongBreak); got != 15*time.Minute {
		t.Errorf("long break duration = %v", got)
	}
}

func TestEventOccursOn(t *testing.T) {
	tests := []struct {
		name       string
		eventDate  string
		recurrence Recurrence
		date       string
		want       bool
	}{
		{"exact date", "2026-08-29", RecurrenceNone, "2026-08-29", true},
		{"none other day", "2026-08-29", RecurrenceNone, "2026-08-30", false},
		{"daily later", "2026-08-01", RecurrenceDaily, "2026-08-29", true},
		{"daily before start", "2026-08-29", RecurrenceDaily, "2026-08-01", false},
		{"weekly same weekday", "2026-08-01", RecurrenceWeekly, "2026-08-08", true},
		{"weekly wrong weekday", "2026-08-01", RecurrenceWeekly, "2026-08-09", false},
		{"monthly same day", "2026-01-15", RecurrenceMonthly, "2026-08-15", true},
		{"yearly anniversary", "2020-08-29", RecurrenceYearly, "2026-08-29", true},
		{"yearly off day", "2020-08-29", RecurrenceYearly, "2026-08-30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := CalendarEvent{Date: tt.eventDate, Recurrence: tt.recurrence}
			if got := e.OccursOn(tt.date); got != tt.want {
				t.Errorf("OccursOn(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestHasTag_CaseInsensitive(t *testing.T) {
	tags := []string{"Work", "errands"}

	if !HasTag(tags, "work") {
		t.Error("expected case-insensitive match for work")
	}
	if !HasTag(tags, "ERRANDS") {
		t.Error("expected case-insensitive match for errands")
	}
	if HasTag(tags, "home") {
		t.Error("unexpected match for home")
	}
}

func TestValidDateAndTime(t *testing.T) {
	if !ValidDate("2026-02-28") || ValidDate("2026-2-28") || ValidDate("28-02-2026") {
		t.Error("date validation mismatch")
	}
	if !ValidTime("09:30") || ValidTime("0930") || ValidTime("24:61") {
		t.Error("time validation mismatch")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Timer.FocusMinutes != 25 || s.Timer.ShortBreakMinutes != 5 || s.Timer.LongBreakMinutes != 15 {
		t.Errorf("unexpected timer defaults: %+v", s.Timer)
	}
	if s.Timer.LongBreakInterval != 4 {
		t.Errorf("long break interval = %d, want 4", s.Timer.LongBreakInterval)
	}

	ns := DefaultNotificationSettings()
	if !ns.TasksEnabled || !ns.EventsEnabled || !ns.JournalEnabled {
		t.Errorf("expected all notification rules enabled by default: %+v", ns)
	}
	if ns.DueSoonDays != 3 || ns.EventLeadMinutes != 15 || ns.JournalReminderTime != "20:00" {
		t.Errorf("unexpected notification defaults: %+v", ns)
	}
}

func TestNotificationIsExpired(t *testing.T) {
	now := time.Now()
	retention := 720 * time.Hour

	fresh := Notification{CreatedAt: now.Add(-time.Hour)}
	if fresh.IsExpired(now, retention) {
		t.Error("fresh notification reported expired")
	}

	old := Notification{CreatedAt: now.Add(-retention - time.Minute)}
	if !old.IsExpired(now, retention) {
		t.Error("aged notification not reported expired")
	}
}
