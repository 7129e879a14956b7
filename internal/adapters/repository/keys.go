package repository

import (
	"context"
	"time"

	"github.com/zephyr-app/core/internal/ports"
)

// Logical store keys, one JSON blob each.
const (
	KeyTasks                = "tasks"
	KeyTaskFolders          = "task-folders"
	KeyNotes                = "notes"
	KeyNoteFolders          = "note-folders"
	KeyJournal              = "journal-entries"
	KeyEvents               = "calendar-events"
	KeySessions             = "focus-sessions"
	KeyNotifications        = "notifications"
	KeySettings             = "settings"
	KeyNotificationSettings = "notification-settings"
	KeyWellness             = "wellness-data"
	KeyTimerState           = "timer-state"
	KeyTheme                = "theme"
	KeyColorMode            = "color-mode"
)

// collection is the persisted envelope around every multi-record blob.
type collection[T any] struct {
	Items       []T   `json:"items"`
	LastUpdated int64 `json:"lastUpdated"`
}

// loadItems reads a collection blob, treating a missing or unreadable key as
// an empty collection.
func loadItems[T any](ctx context.Context, kv ports.KV, key string) ([]T, error) {
	var col collection[T]
	found, err := kv.Read(ctx, key, &col)
	if err != nil {
		return nil, err
	}
	if !found || col.Items == nil {
		return []T{}, nil
	}
	return col.Items, nil
}

// saveItems overwrites a collection blob with a fresh lastUpdated stamp.
func saveItems[T any](ctx context.Context, kv ports.KV, key string, items []T) error {
	return kv.Write(ctx, key, collection[T]{
		Items:       items,
		LastUpdated: time.Now().UnixMilli(),
	})
}
