package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/ports"
)

// TransferService exports and imports the notes and journal collections as
// JSON arrays. Import is all-or-nothing: the whole payload is parsed before
// anything is written, so a malformed file leaves the store untouched.
type TransferService struct {
	noteRepo    ports.NoteRepository
	journalRepo ports.JournalRepository
	logger      *logger.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(noteRepo ports.NoteRepository, journalRepo ports.JournalRepository, appLogger *logger.Logger) *TransferService {
	return &TransferService{
		noteRepo:    noteRepo,
		journalRepo: journalRepo,
		logger:      appLogger,
	}
}

// ExportNotes writes the full notes collection to w as an indented JSON
// array.
func (s *TransferService) ExportNotes(ctx context.Context, w io.Writer) error {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	return writeJSON(w, notes)
}

// ImportNotes reads a JSON array of notes from r and appends them with fresh
// ids. Existing notes are kept; importing the same file twice duplicates its
// contents.
func (s *TransferService) ImportNotes(ctx context.Context, r io.Reader) (int, error) {
	var notes []entities.Note
	if err := decodeArray(r, &notes); err != nil {
		return 0, err
	}
	for i := range notes {
		if notes[i].Title == "" && notes[i].Content == "" {
			return 0, fmt.Errorf("%w: note %d has neither title nor content", entities.ErrMalformedImport, i)
		}
	}

	count, err := s.noteRepo.Append(ctx, notes)
	if err != nil {
		return 0, fmt.Errorf("failed to append notes: %w", err)
	}

	s.logger.Infow("Notes imported", "count", count)
	return count, nil
}

// ExportJournal writes the full journal collection to w as an indented JSON
// array.
func (s *TransferService) ExportJournal(ctx context.Context, w io.Writer) error {
	entries, err := s.journalRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list journal entries: %w", err)
	}
	return writeJSON(w, entries)
}

// ImportJournal reads a JSON array of journal entries from r and appends
// them with fresh ids. Imported entries do not collapse into existing dates.
func (s *TransferService) ImportJournal(ctx context.Context, r io.Reader) (int, error) {
	var entries []entities.JournalEntry
	if err := decodeArray(r, &entries); err != nil {
		return 0, err
	}
	for i, e := range entries {
		if !entities.ValidDate(e.Date) {
			return 0, fmt.Errorf("%w: entry %d has invalid date %q", entities.ErrMalformedImport, i, e.Date)
		}
		if e.Mood != "" && !e.Mood.IsValid() {
			return 0, fmt.Errorf("%w: entry %d has unknown mood %q", entities.ErrMalformedImport, i, e.Mood)
		}
	}

	count, err := s.journalRepo.Append(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("failed to append journal entries: %w", err)
	}

	s.logger.Infow("Journal imported", "count", count)
	return count, nil
}

// writeJSON emits v indented with a trailing newline.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// decodeArray parses a complete JSON array, rejecting trailing garbage.
func decodeArray(r io.Reader, dest interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrMalformedImport, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing data", entities.ErrMalformedImport)
	}
	return nil
}
