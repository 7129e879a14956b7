package ports

import (
	"context"

	"github.com/zephyr-app/core/internal/domain/entities"
)

// KV is the synchronous key-value blob store every repository persists
// through. One logical collection maps to one key holding one JSON blob.
// Read reports (false, nil) when the key is absent; implementations discard
// corrupt blobs and report them as absent rather than failing the load.
// There is no transactional guarantee across keys.
type KV interface {
	Read(ctx context.Context, key string, dest any) (bool, error)
	Write(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// TaskRepository defines task collection operations.
type TaskRepository interface {
	List(ctx context.Context) ([]entities.Task, error)
	Get(ctx context.Context, id string) (*entities.Task, error)
	Create(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	// Update merges the partial request into the stored record. A missing id
	// yields (nil, nil), not an error.
	Update(ctx context.Context, id string, req UpdateTaskRequest) (*entities.Task, error)
	// Toggle flips completion and maintains completedAt with it.
	Toggle(ctx context.Context, id string) (*entities.Task, error)
	// Delete removes the record if present. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
	// ClearFolder nulls folderId on every task referencing the folder.
	ClearFolder(ctx context.Context, folderID string) error
}

// FolderRepository defines folder collection operations. The same
// implementation backs task folders and note folders; the cascade hook
// supplied at construction nulls dependent references on delete.
type FolderRepository interface {
	List(ctx context.Context) ([]entities.Folder, error)
	Create(ctx context.Context, req CreateFolderRequest) (*entities.Folder, error)
	Update(ctx context.Context, id string, req UpdateFolderRequest) (*entities.Folder, error)
	Delete(ctx context.Context, id string) error
}

// NoteRepository defines note collection operations.
type NoteRepository interface {
	List(ctx context.Context) ([]entities.Note, error)
	Get(ctx context.Context, id string) (*entities.Note, error)
	Create(ctx context.Context, req CreateNoteRequest) (*entities.Note, error)
	Update(ctx context.Context, id string, req UpdateNoteRequest) (*entities.Note, error)
	Delete(ctx context.Context, id string) error
	ClearFolder(ctx context.Context, folderID string) error
	// Append adds pre-built records to the collection as-is (import path).
	Append(ctx context.Context, notes []entities.Note) (int, error)
}

// JournalRepository defines journal collection operations. Date is the
// natural key: Upsert mutates the existing entry for an occupied date.
type JournalRepository interface {
	List(ctx context.Context) ([]entities.JournalEntry, error)
	GetByDate(ctx context.Context, date string) (*entities.JournalEntry, error)
	Upsert(ctx context.Context, req UpsertJournalRequest) (*entities.JournalEntry, error)
	Update(ctx context.Context, id string, req UpdateJournalRequest) (*entities.JournalEntry, error)
	Delete(ctx context.Context, id string) error
	Append(ctx context.Context, entries []entities.JournalEntry) (int, error)
}

// EventRepository defines calendar event collection operations.
type EventRepository interface {
	List(ctx context.Context) ([]entities.CalendarEvent, error)
	Get(ctx context.Context, id string) (*entities.CalendarEvent, error)
	Create(ctx context.Context, req CreateEventRequest) (*entities.CalendarEvent, error)
	Update(ctx context.Context, id string, req UpdateEventRequest) (*entities.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository is the append-only focus session log. Recording a
// session also bumps the wellness-data day totals.
type SessionRepository interface {
	List(ctx context.Context) ([]entities.FocusSession, error)
	Add(ctx context.Context, date string, duration int, mode entities.TimerMode) (*entities.FocusSession, error)
	Wellness(ctx context.Context) (*entities.WellnessData, error)
}

// NotificationRepository defines the notification log. Every save prunes
// entries past the retention window.
type NotificationRepository interface {
	List(ctx context.Context) ([]entities.Notification, error)
	Add(ctx context.Context, n entities.Notification) (*entities.Notification, error)
	MarkRead(ctx context.Context, id string) (*entities.Notification, error)
	MarkAllRead(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// SettingsRepository manages the single-record configuration blobs. Reads
// fall back to defaults when the record is missing or unreadable.
type SettingsRepository interface {
	Get(ctx context.Context) (entities.Settings, error)
	Put(ctx context.Context, s entities.Settings) error
	GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, error)
	PutNotificationSettings(ctx context.Context, s entities.NotificationSettings) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	ColorMode(ctx context.Context) (string, error)
	SetColorMode(ctx context.Context, mode string) error
}

// TimerRepository persists the Pomodoro timer snapshot.
type TimerRepository interface {
	Get(ctx context.Context) (*entities.TimerState, error)
	Put(ctx context.Context, state entities.TimerState) error
}
