package ports

import (
	"github.com/zephyr-app/core/internal/domain/entities"
)

// Request/Response Types
//
// Partial-update requests use pointer fields: nil leaves the stored value
// untouched. Nullable references (folderId, dueDate, time) are cleared by
// passing a pointer to the empty string.

// Task related types
type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=5000"`
	Priority    entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	FolderID    *string           `json:"folderId"`
	DueDate     *string           `json:"dueDate"`
	Tags        []string          `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=5000"`
	Completed   *bool              `json:"completed"`
	Priority    *entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	FolderID    *string            `json:"folderId"`
	DueDate     *string            `json:"dueDate"`
	Tags        *[]string          `json:"tags"`
}

// Folder related types
type CreateFolderRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"max=32"`
}

type UpdateFolderRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Color *string `json:"color" validate:"omitempty,max=32"`
}

// Note related types
type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Color    string   `json:"color" validate:"max=32"`
	Pinned   bool     `json:"pinned"`
	Favorite bool     `json:"favorite"`
	FolderID *string  `json:"folderId"`
}

type UpdateNoteRequest struct {
	Title    *string   `json:"title" validate:"omitempty,max=200"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Color    *string   `json:"color" validate:"omitempty,max=32"`
	Pinned   *bool     `json:"pinned"`
	Favorite *bool     `json:"favorite"`
	FolderID *string   `json:"folderId"`
	Archived *bool     `json:"archived"`
}

// Journal related types
type UpsertJournalRequest struct {
	Date    string        `json:"date" validate:"required"`
	Content string        `json:"content"`
	Mood    entities.Mood `json:"mood" validate:"required,oneof=happy neutral sad excited calm grateful"`
	Tags    []string      `json:"tags"`
}

type UpdateJournalRequest struct {
	Content  *string        `json:"content"`
	Mood     *entities.Mood `json:"mood" validate:"omitempty,oneof=happy neutral sad excited calm grateful"`
	Tags     *[]string      `json:"tags"`
	Archived *bool          `json:"archived"`
}

// Calendar event related types
type CreateEventRequest struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	Description string                 `json:"description" validate:"max=5000"`
	Date        string                 `json:"date" validate:"required"`
	Time        *string                `json:"time"`
	EndTime     *string                `json:"endTime"`
	AllDay      bool                   `json:"allDay"`
	Category    entities.EventCategory `json:"category" validate:"omitempty,oneof=personal work health social finance other"`
	Location    string                 `json:"location" validate:"max=300"`
	Recurrence  entities.Recurrence    `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	Reminder    bool                   `json:"reminder"`
}

type UpdateEventRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,max=200"`
	Description *string                 `json:"description" validate:"omitempty,max=5000"`
	Date        *string                 `json:"date"`
	Time        *string                 `json:"time"`
	EndTime     *string                 `json:"endTime"`
	AllDay      *bool                   `json:"allDay"`
	Category    *entities.EventCategory `json:"category" validate:"omitempty,oneof=personal work health social finance other"`
	Location    *string                 `json:"location" validate:"omitempty,max=300"`
	Recurrence  *entities.Recurrence    `json:"recurrence" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	Reminder    *bool                   `json:"reminder"`
}

// Session related types
type RecordSessionRequest struct {
	Date     string            `json:"date" validate:"required"`
	Duration int               `json:"duration" validate:"required,min=1"`
	Type     entities.TimerMode `json:"type" validate:"required,oneof=focus short_break long_break"`
}

// Notification related types
type CreateNotificationRequest struct {
	Type     entities.NotificationType `json:"type" validate:"required,oneof=task event journal timer note"`
	Title    string                    `json:"title" validate:"required,max=200"`
	Message  string                    `json:"message" validate:"max=1000"`
	Action   *string                   `json:"action"`
	Metadata map[string]string         `json:"metadata"`
}
