package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrNoteNotFound      = errors.New("note not found")
	ErrEntryNotFound     = errors.New("journal entry not found")
	ErrEventNotFound     = errors.New("calendar event not found")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidMood       = errors.New("invalid mood")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime       = errors.New("invalid time, expected HH:MM")
	ErrMalformedImport   = errors.New("malformed import file")
)

// Date and time-of-day layouts used across all persisted records.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodSad      Mood = "sad"
	MoodExcited  Mood = "excited"
	MoodCalm     Mood = "calm"
	MoodGrateful Mood = "grateful"
)

// Moods lists every mood in its canonical order. Histogram tie-breaks
// resolve to the first maximum in this order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodSad, MoodExcited, MoodCalm, MoodGrateful}

type EventCategory string

const (
	CategoryPersonal EventCategory = "personal"
	CategoryWork     EventCategory = "work"
	CategoryHealth   EventCategory = "health"
	CategorySocial   EventCategory = "social"
	CategoryFinance  EventCategory = "finance"
	CategoryOther    EventCategory = "other"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

type NotificationType string

const (
	NotificationTask    NotificationType = "task"
	NotificationEvent   NotificationType = "event"
	NotificationJournal NotificationType = "journal"
	NotificationTimer   NotificationType = "timer"
	NotificationNote    NotificationType = "note"
)

type TimerMode string

const (
	ModeFocus      TimerMode = "focus"
	ModeShortBreak TimerMode = "short_break"
	ModeLongBreak  TimerMode = "long_break"
)

type TimerStatus string

const (
	TimerIdle    TimerStatus = "idle"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

// NewID generates a collection-unique record id: creation timestamp in
// milliseconds plus a random suffix. Ids are never reissued or renumbered.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Task represents a single to-do item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	FolderID    *string    `json:"folderId"`
	DueDate     *string    `json:"dueDate"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Folder groups tasks or notes. The same shape backs both the task-folder
// and note-folder collections.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note represents a free-form note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Color     string    `json:"color"`
	Pinned    bool      `json:"pinned"`
	Favorite  bool      `json:"favorite"`
	FolderID  *string   `json:"folderId"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JournalEntry is a dated journal record. Date is a de facto unique key:
// adding for an occupied date mutates the existing entry.
type JournalEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Tags      []string  `json:"tags"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CalendarEvent represents a calendar entry. Recurrence is stored but never
// expanded into instances.
type CalendarEvent struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
	Time        *string       `json:"time"`
	EndTime     *string       `json:"endTime"`
	AllDay      bool          `json:"allDay"`
	Category    EventCategory `json:"category"`
	Location    string        `json:"location"`
	Recurrence  Recurrence    `json:"recurrence"`
	Reminder    bool          `json:"reminder"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// FocusSession is one completed Pomodoro interval. The session log is
// append-only and never mutated.
type FocusSession struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Duration  int       `json:"duration"` // seconds
	Type      TimerMode `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is an entry in the notification log.
type Notification struct {
	ID        string            `json:"id"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Action    *string           `json:"action"`
	Metadata  map[string]string `json:"metadata"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TimerState is the persisted Pomodoro timer snapshot. A running timer is
// recovered against the wall clock on every load.
type TimerState struct {
	Mode                TimerMode   `json:"mode"`
	Status              TimerStatus `json:"status"`
	RemainingSeconds    int         `json:"remainingSeconds"`
	StartedAt           *time.Time  `json:"startedAt"`
	CompletedFocusCount int         `json:"completedFocusCount"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// TimerSettings holds the Pomodoro durations in minutes.
type TimerSettings struct {
	FocusMinutes      int `json:"focusMinutes"`
	ShortBreakMinutes int `json:"shortBreakMinutes"`
	LongBreakMinutes  int `json:"longBreakMinutes"`
	LongBreakInterval int `json:"longBreakInterval"`
}

// CalendarSettings holds calendar display preferences.
type CalendarSettings struct {
	WeekStartsMonday bool          `json:"weekStartsMonday"`
	DefaultCategory  EventCategory `json:"defaultCategory"`
	DefaultReminder  bool          `json:"defaultReminder"`
}

// Settings is the single nested configuration record.
type Settings struct {
	Timer    TimerSettings    `json:"timer"`
	Calendar CalendarSettings `json:"calendar"`
}

// NotificationSettings controls the polling notifier's rule sets.
type NotificationSettings struct {
	TasksEnabled        bool   `json:"tasksEnabled"`
	EventsEnabled       bool   `json:"eventsEnabled"`
	JournalEnabled      bool   `json:"journalEnabled"`
	DueSoonDays         int    `json:"dueSoonDays"`
	EventLeadMinutes    int    `json:"eventLeadMinutes"`
	JournalReminderTime string `json:"journalReminderTime"`
}

// WellnessDay aggregates one calendar day of focus activity.
type WellnessDay struct {
	Sessions     int `json:"sessions"`
	FocusSeconds int `json:"focusSeconds"`
}

// WellnessData accumulates daily focus totals, keyed by date.
type WellnessData struct {
	Days      map[string]WellnessDay `json:"days"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// DefaultSettings returns the settings used when no record is stored yet or
// the stored record cannot be decoded.
func DefaultSettings() Settings {
	return Settings{
		Timer: TimerSettings{
			FocusMinutes:      25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakInterval: 4,
		},
		Calendar: CalendarSettings{
			WeekStartsMonday: false,
			DefaultCategory:  CategoryPersonal,
			DefaultReminder:  true,
		},
	}
}

// DefaultNotificationSettings returns the notifier defaults.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		TasksEnabled:        true,
		EventsEnabled:       true,
		JournalEnabled:      true,
		DueSoonDays:         3,
		EventLeadMinutes:    15,
		JournalReminderTime: "20:00",
	}
}

// DefaultTimerState returns an idle focus timer sized by the given settings.
func DefaultTimerState(ts TimerSettings, now time.Time) TimerState {
	return TimerState{
		Mode:             ModeFocus,
		Status:           TimerIdle,
		RemainingSeconds: ts.FocusMinutes * 60,
		UpdatedAt:        now,
	}
}

// Duration returns the configured length of a timer mode.
func (ts TimerSettings) Duration(mode TimerMode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return time.Duration(ts.ShortBreakMinutes) * time.Minute
	case ModeLongBreak:
		return time.Duration(ts.LongBreakMinutes) * time.Minute
	default:
		return time.Duration(ts.FocusMinutes) * time.Minute
	}
}

// Business logic methods for Task

// SetCompleted flips the completion flag and keeps completedAt transactional
// with it: set on false to true, cleared on true to false.
func (t *Task) SetCompleted(done bool, now time.Time) {
	if done && !t.Completed {
		t.CompletedAt = &now
	}
	if !done && t.Completed {
		t.CompletedAt = nil
	}
	t.Completed = done
	t.UpdatedAt = now
}

// IsOverdue reports whether the task's due date lies strictly before today.
func (t *Task) IsOverdue(today string) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return *t.DueDate < today
}

// IsDueToday reports whether the task is due on the given day.
func (t *Task) IsDueToday(today string) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return *t.DueDate == today
}

// IsDueWithin reports whether the task's due date falls after today but
// within the next n days.
func (t *Task) IsDueWithin(today string, n int) bool {
	if t.Completed || t.DueDate == nil || n <= 0 {
		return false
	}
	day, err := time.Parse(DateLayout, today)
	if err != nil {
		return false
	}
	limit := day.AddDate(0, 0, n).Format(DateLayout)
	return *t.DueDate > today && *t.DueDate <= limit
}

// Rank maps a priority to its sort weight. Unknown or missing priorities
// rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Business logic methods for CalendarEvent

// StartAt resolves the event's start instant in the given location. All-day
// events and events without a time have no start instant.
func (e *CalendarEvent) StartAt(loc *time.Location) (time.Time, bool) {
	if e.AllDay || e.Time == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+*e.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// OccursOn reports whether the event has an occurrence on the given day,
// honoring its recurrence rule. Occurrences before the event's own date
// never exist.
func (e *CalendarEvent) OccursOn(date string) bool {
	if e.Date == date {
		return true
	}
	if e.Recurrence == RecurrenceNone || e.Date > date {
		return false
	}
	base, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return false
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}

	switch e.Recurrence {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		return base.Weekday() == day.Weekday()
	case RecurrenceMonthly:
		return base.Day() == day.Day()
	case RecurrenceYearly:
		return base.Month() == day.Month() && base.Day() == day.Day()
	default:
		return false
	}
}

// Business logic methods for Notification

// IsExpired reports whether the notification has aged out of the retention
// window.
func (n *Notification) IsExpired(now time.Time, retention time.Duration) bool {
	return now.Sub(n.CreatedAt) > retention
}

// HasTag reports case-insensitive tag membership.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a well-formed HH:MM time of day.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// Utility methods

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodExcited, MoodCalm, MoodGrateful:
		return true
	default:
		return false
	}
}

func (c EventCategory) IsValid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryHealth, CategorySocial, CategoryFinance, CategoryOther:
		return true
	default:
		return false
	}
}

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

func (nt NotificationType) IsValid() bool {
	switch nt {
	case NotificationTask, NotificationEvent, NotificationJournal, NotificationTimer, NotificationNote:
		return true
	default:
		return false
	}
}

func (m TimerMode) IsValid() bool {
	switch m {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	default:
		return false
	}
}
