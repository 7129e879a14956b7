package views

import (
	"strings"

	"github.com/zephyr-app/core/internal/domain/entities"
)

// MatchType names the field a search hit matched on. When several fields
// match, the first in the fixed priority order below wins.
type MatchType string

const (
	MatchTitle    MatchType = "title"
	MatchContent  MatchType = "content"
	MatchTag      MatchType = "tag"
	MatchDate     MatchType = "date"
	MatchLocation MatchType = "location"
	MatchCategory MatchType = "category"
)

// Hit pairs a matched record with the field it matched on.
type Hit[T any] struct {
	Item      T         `json:"item"`
	MatchType MatchType `json:"matchType"`
}

// FlatHit is one row of the flattened global result order, used for
// keyboard navigation across collections.
type FlatHit struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MatchType MatchType `json:"matchType"`
}

// SearchResults holds the four per-collection hit lists, un-merged.
type SearchResults struct {
	Notes   []Hit[entities.Note]          `json:"notes"`
	Journal []Hit[entities.JournalEntry]  `json:"journal"`
	Events  []Hit[entities.CalendarEvent] `json:"events"`
	Tasks   []Hit[entities.Task]          `json:"tasks"`
}

// Search queries the four collections independently with the same
// lowercase-substring rule. Each hit carries the first match type in
// priority order: title, content, tag, date, location, category.
func Search(
	notes []entities.Note,
	journal []entities.JournalEntry,
	events []entities.CalendarEvent,
	tasks []entities.Task,
	query string,
) SearchResults {
	q := strings.ToLower(strings.TrimSpace(query))
	res := SearchResults{
		Notes:   []Hit[entities.Note]{},
		Journal: []Hit[entities.JournalEntry]{},
		Events:  []Hit[entities.CalendarEvent]{},
		Tasks:   []Hit[entities.Task]{},
	}
	if q == "" {
		return res
	}

	for _, n := range notes {
		if mt, ok := firstMatch(q, []field{
			{MatchTitle, n.Title},
			{MatchContent, n.Content},
			{MatchTag, strings.Join(n.Tags, "\n")},
		}); ok {
			res.Notes = append(res.Notes, Hit[entities.Note]{Item: n, MatchType: mt})
		}
	}

	for _, e := range journal {
		if mt, ok := firstMatch(q, []field{
			{MatchContent, e.Content},
			{MatchTag, strings.Join(e.Tags, "\n")},
			{MatchDate, e.Date},
		}); ok {
			res.Journal = append(res.Journal, Hit[entities.JournalEntry]{Item: e, MatchType: mt})
		}
	}

	for _, e := range events {
		if mt, ok := firstMatch(q, []field{
			{MatchTitle, e.Title},
			{MatchContent, e.Description},
			{MatchDate, e.Date},
			{MatchLocation, e.Location},
			{MatchCategory, string(e.Category)},
		}); ok {
			res.Events = append(res.Events, Hit[entities.CalendarEvent]{Item: e, MatchType: mt})
		}
	}

	for _, t := range tasks {
		fields := []field{
			{MatchTitle, t.Title},
			{MatchContent, t.Description},
			{MatchTag, strings.Join(t.Tags, "\n")},
		}
		if t.DueDate != nil {
			fields = append(fields, field{MatchDate, *t.DueDate})
		}
		if mt, ok := firstMatch(q, fields); ok {
			res.Tasks = append(res.Tasks, Hit[entities.Task]{Item: t, MatchType: mt})
		}
	}

	return res
}

// Flatten produces the global ordered view by concatenating in the fixed
// collection order: notes, journal, events, tasks.
func (r SearchResults) Flatten() []FlatHit {
	out := make([]FlatHit, 0, len(r.Notes)+len(r.Journal)+len(r.Events)+len(r.Tasks))
	for _, h := range r.Notes {
		out = append(out, FlatHit{Kind: "note", ID: h.Item.ID, Title: h.Item.Title, MatchType: h.MatchType})
	}
	for _, h := range r.Journal {
		out = append(out, FlatHit{Kind: "journal", ID: h.Item.ID, Title: h.Item.Date, MatchType: h.MatchType})
	}
	for _, h := range r.Events {
		out = append(out, FlatHit{Kind: "event", ID: h.Item.ID, Title: h.Item.Title, MatchType: h.MatchType})
	}
	for _, h := range r.Tasks {
		out = append(out, FlatHit{Kind: "task", ID: h.Item.ID, Title: h.Item.Title, MatchType: h.MatchType})
	}
	return out
}

// Total counts hits across all four collections.
func (r SearchResults) Total() int {
	return len(r.Notes) + len(r.Journal) + len(r.Events) + len(r.Tasks)
}

type field struct {
	mt    MatchType
	value string
}

// firstMatch evaluates fields in priority order and returns the first whose
// lowercased value contains the query.
func firstMatch(q string, fields []field) (MatchType, bool) {
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f.value), q) {
			return f.mt, true
		}
	}
	return "", false
}
