// Package views holds the pure derived-state computations: every function
// takes a collection snapshot and returns what a screen would display,
// without touching storage or the clock.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
)

// SortKey selects the secondary ordering applied after the pinned-first
// partition.
type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByPriority  SortKey = "priority"
	SortByTitle     SortKey = "title"
	SortByCompleted SortKey = "completed"
)

// TaskFilter narrows a task snapshot. Zero values mean "don't filter".
type TaskFilter struct {
	Completed *bool
	FolderID  *string
	Tag       string
	Query     string
}

// FilterTasks applies the filter predicates in collection order.
func FilterTasks(tasks []entities.Task, f TaskFilter) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		if f.FolderID != nil {
			if t.FolderID == nil || *t.FolderID != *f.FolderID {
				continue
			}
		}
		if f.Tag != "" && !entities.HasTag(t.Tags, f.Tag) {
			continue
		}
		if f.Query != "" && !matchesText(f.Query, t.Title, t.Description, t.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NoteFilter narrows a note snapshot.
type NoteFilter struct {
	Archived *bool
	FolderID *string
	Tag      string
	Query    string
}

// FilterNotes applies the filter predicates in collection order.
func FilterNotes(notes []entities.Note, f NoteFilter) []entities.Note {
	out := make([]entities.Note, 0, len(notes))
	for _, n := range notes {
		if f.Archived != nil && n.Archived != *f.Archived {
			continue
		}
		if f.FolderID != nil {
			if n.FolderID == nil || *n.FolderID != *f.FolderID {
				continue
			}
		}
		if f.Tag != "" && !entities.HasTag(n.Tags, f.Tag) {
			continue
		}
		if f.Query != "" && !matchesText(f.Query, n.Title, n.Content, n.Tags) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SortTasks orders a copy of the snapshot by the given key. The sort is
// stable: ties keep the original collection order.
func SortTasks(tasks []entities.Task, key SortKey) []entities.Task {
	out := make([]entities.Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortByPriority:
			return a.Priority.Rank() > b.Priority.Rank()
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByCompleted:
			return !a.Completed && b.Completed
		case SortByDate:
			return dueBefore(a.DueDate, b.DueDate)
		default:
			return false
		}
	})
	return out
}

// SortNotes orders a copy of the snapshot pinned-first, then by the given
// key. Stable: ties keep the original collection order.
func SortNotes(notes []entities.Note, key SortKey) []entities.Note {
	out := make([]entities.Note, len(notes))
	copy(out, notes)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch key {
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByDate:
			return a.UpdatedAt.After(b.UpdatedAt)
		default:
			return false
		}
	})
	return out
}

// SortJournal orders a copy of the snapshot by date descending, most recent
// entry first.
func SortJournal(entries []entities.JournalEntry) []entities.JournalEntry {
	out := make([]entities.JournalEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// dueBefore orders present due dates ascending and sinks missing ones.
func dueBefore(a, b *string) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

// CompletionRate returns completed/total, and exactly 0 for an empty
// snapshot.
func CompletionRate(tasks []entities.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks))
}

// MoodHistogram counts entries per mood value.
func MoodHistogram(entries []entities.JournalEntry) map[entities.Mood]int {
	hist := make(map[entities.Mood]int, len(entities.Moods))
	for _, e := range entries {
		hist[e.Mood]++
	}
	return hist
}

// MostCommonMood scans the histogram in canonical mood order and keeps the
// first maximum, so ties resolve deterministically. The second return is
// false when there are no entries.
func MostCommonMood(entries []entities.JournalEntry) (entities.Mood, bool) {
	if len(entries) == 0 {
		return "", false
	}
	hist := MoodHistogram(entries)

	var best entities.Mood
	bestCount := -1
	for _, m := range entities.Moods {
		if hist[m] > bestCount {
			best = m
			bestCount = hist[m]
		}
	}
	return best, bestCount > 0
}

// Streak counts consecutive calendar days with at least one journal entry,
// walking backward from today and stopping at the first gap.
func Streak(entries []entities.JournalEntry, today time.Time) int {
	dates := make(map[string]bool, len(entries))
	for _, e := range entries {
		dates[e.Date] = true
	}

	streak := 0
	for day := today; dates[day.Format(entities.DateLayout)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// matchesText is the shared free-text predicate: case-insensitive substring
// over title, body, and tags.
func matchesText(query, title, body string, tags []string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(body), q) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
