package views

import (
	"testing"
	"time"

	"github.com/zephyr-app/core/internal/domain/entities"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func dayOffset(d int) string  { return baseDay.AddDate(0, 0, d).Format(entities.DateLayout) }

var baseDay = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestFilterTasks(t *testing.T) {
	tasks := []entities.Task{
		{ID: "1", Title: "Buy groceries", Tags: []string{"errand"}},
		{ID: "2", Title: "Write report", Completed: true, FolderID: strPtr("work")},
		{ID: "3", Title: "Plan sprint", FolderID: strPtr("work"), Tags: []string{"Errand"}},
	}

	got := FilterTasks(tasks, TaskFilter{Completed: boolPtr(true)})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("completed filter: got %+v", got)
	}

	got = FilterTasks(tasks, TaskFilter{FolderID: strPtr("work")})
	if len(got) != 2 {
		t.Errorf("folder filter: got %d tasks", len(got))
	}

	// Tag matching is case-insensitive.
	got = FilterTasks(tasks, TaskFilter{Tag: "errand"})
	if len(got) != 2 {
		t.Errorf("tag filter: got %d tasks", len(got))
	}

	got = FilterTasks(tasks, TaskFilter{Query: "groc"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("query filter: got %+v", got)
	}
}

func TestSortTasks_DueDateSinksMissing(t *testing.T) {
	tasks := []entities.Task{
		{ID: "none"},
		{ID: "late", DueDate: strPtr("2026-09-10")},
		{ID: "soon", DueDate: strPtr("2026-09-01")},
	}

	got := SortTasks(tasks, SortByDate)
	if got[0].ID != "soon" || got[1].ID != "late" || got[2].ID != "none" {
		t.Errorf("order = %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if tasks[0].ID != "none" {
		t.Error("input slice must not be reordered")
	}
}

func TestSortTasks_PriorityStableTies(t *testing.T) {
	tasks := []entities.Task{
		{ID: "a", Priority: entities.PriorityMedium},
		{ID: "b", Priority: entities.PriorityHigh},
		{ID: "c", Priority: entities.PriorityMedium},
	}

	got := SortTasks(tasks, SortByPriority)
	if got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Errorf("order = %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSortNotes_PinnedFirst(t *testing.T) {
	notes := []entities.Note{
		{ID: "b", Title: "beta"},
		{ID: "p", Title: "zulu", Pinned: true},
		{ID: "a", Title: "alpha"},
	}

	got := SortNotes(notes, SortByTitle)
	if got[0].ID != "p" {
		t.Errorf("pinned note must sort first, got %s", got[0].ID)
	}
	if got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("order after pinned = %s %s", got[1].ID, got[2].ID)
	}
}

func TestSortJournal_MostRecentFirst(t *testing.T) {
	entries := []entities.JournalEntry{
		{ID: "old", Date: "2026-08-01"},
		{ID: "new", Date: "2026-08-29"},
		{ID: "mid", Date: "2026-08-15"},
	}

	got := SortJournal(entries)
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Errorf("order = %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestCompletionRate(t *testing.T) {
	if rate := CompletionRate(nil); rate != 0 {
		t.Errorf("empty rate = %v, want 0", rate)
	}

	tasks := []entities.Task{
		{Completed: true},
		{Completed: true},
		{},
		{},
	}
	if rate := CompletionRate(tasks); rate != 0.5 {
		t.Errorf("rate = %v, want 0.5", rate)
	}
}

func TestMostCommonMood(t *testing.T) {
	if _, ok := MostCommonMood(nil); ok {
		t.Error("empty snapshot must report no mood")
	}

	// A two-way tie resolves to the mood listed first in canonical order.
	entries := []entities.JournalEntry{
		{Mood: entities.MoodCalm},
		{Mood: entities.MoodHappy},
	}
	mood, ok := MostCommonMood(entries)
	if !ok || mood != entities.MoodHappy {
		t.Errorf("mood = %v ok = %v, want happy", mood, ok)
	}

	entries = append(entries, entities.JournalEntry{Mood: entities.MoodCalm})
	mood, _ = MostCommonMood(entries)
	if mood != entities.MoodCalm {
		t.Errorf("mood = %v, want calm", mood)
	}
}

func TestStreak(t *testing.T) {
	entries := []entities.JournalEntry{
		{Date: dayOffset(0)},
		{Date: dayOffset(-1)},
		{Date: dayOffset(-2)},
		{Date: dayOffset(-5)},
	}

	if got := Streak(entries, baseDay); got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}

	// No entry today breaks the streak immediately.
	if got := Streak(entries[1:], baseDay); got != 0 {
		t.Errorf("streak without today = %d, want 0", got)
	}
}

func TestSearch_MatchTypePriority(t *testing.T) {
	notes := []entities.Note{
		{ID: "n1", Title: "Grocery list", Content: "grocery items", Tags: []string{"grocery"}},
	}
	tasks := []entities.Task{
		{ID: "t1", Title: "Call plumber", Description: "about the grocery store leak"},
	}
	events := []entities.CalendarEvent{
		{ID: "e1", Title: "Standup", Date: "2026-08-29", Location: "Grocery Cafe"},
	}

	res := Search(notes, nil, events, tasks, "groc")

	if len(res.Notes) != 1 || res.Notes[0].MatchType != MatchTitle {
		t.Errorf("note hit = %+v, want title match", res.Notes)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].MatchType != MatchContent {
		t.Errorf("task hit = %+v, want content match", res.Tasks)
	}
	if len(res.Events) != 1 || res.Events[0].MatchType != MatchLocation {
		t.Errorf("event hit = %+v, want location match", res.Events)
	}
	if res.Total() != 3 {
		t.Errorf("total = %d, want 3", res.Total())
	}
}

func TestSearch_BlankQueryMatchesNothing(t *testing.T) {
	notes := []entities.Note{{ID: "n1", Title: "anything"}}

	res := Search(notes, nil, nil, nil, "   ")
	if res.Total() != 0 {
		t.Errorf("blank query total = %d, want 0", res.Total())
	}
}

func TestSearchResults_FlattenOrder(t *testing.T) {
	res := SearchResults{
		Notes:   []Hit[entities.Note]{{Item: entities.Note{ID: "n"}, MatchType: MatchTitle}},
		Journal: []Hit[entities.JournalEntry]{{Item: entities.JournalEntry{ID: "j", Date: "2026-08-29"}, MatchType: MatchDate}},
		Events:  []Hit[entities.CalendarEvent]{{Item: entities.CalendarEvent{ID: "e"}, MatchType: MatchTitle}},
		Tasks:   []Hit[entities.Task]{{Item: entities.Task{ID: "t"}, MatchType: MatchTitle}},
	}

	flat := res.Flatten()
	want := []string{"note", "journal", "event", "task"}
	if len(flat) != 4 {
		t.Fatalf("flat len = %d", len(flat))
	}
	for i, kind := range want {
		if flat[i].Kind != kind {
			t.Errorf("flat[%d].Kind = %q, want %q", i, flat[i].Kind, kind)
		}
	}
	if flat[1].Title != "2026-08-29" {
		t.Errorf("journal rows surface the date as title, got %q", flat[1].Title)
	}
}
