package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/domain/entities"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
	"github.com/zephyr-app/core/internal/ports"
)

func newTransferFixture(t *testing.T) (*TransferService, ports.NoteRepository, ports.JournalRepository) {
	t.Helper()
	mem := storage.NewMemory()
	log := logger.NewNop()
	noteRepo := repository.NewNoteRepository(mem, log)
	journalRepo := repository.NewJournalRepository(mem, log)
	return NewTransferService(noteRepo, journalRepo, log), noteRepo, journalRepo
}

func TestTransfer_NotesRoundTrip(t *testing.T) {
	svc, noteRepo, _ := newTransferFixture(t)
	ctx := context.Background()

	if _, err := noteRepo.Create(ctx, ports.CreateNoteRequest{Title: "first", Content: "hello"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := noteRepo.Create(ctx, ports.CreateNoteRequest{Title: "second"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportNotes(ctx, &buf); err != nil {
		t.Fatalf("ExportNotes failed: %v", err)
	}

	count, err := svc.ImportNotes(ctx, &buf)
	if err != nil {
		t.Fatalf("ImportNotes failed: %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2", count)
	}

	notes, err := noteRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 4 {
		t.Fatalf("notes = %d, want originals plus imported copies", len(notes))
	}
}

func TestTransfer_JournalImportKeepsDuplicateDates(t *testing.T) {
	svc, _, journalRepo := newTransferFixture(t)
	ctx := context.Background()

	if _, err := journalRepo.Upsert(ctx, ports.UpsertJournalRequest{
		Date: "2026-08-29", Content: "original", Mood: entities.MoodHappy,
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	payload := `[{"date": "2026-08-29", "content": "imported", "mood": "calm"}]`
	count, err := svc.ImportJournal(ctx, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ImportJournal failed: %v", err)
	}
	if count != 1 {
		t.Errorf("imported = %d, want 1", count)
	}

	entries, err := journalRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, import must not collapse into the existing date", len(entries))
	}
}

func TestTransfer_ImportRejectsMalformedPayload(t *testing.T) {
	svc, noteRepo, _ := newTransferFixture(t)
	ctx := context.Background()

	cases := map[string]string{
		"not json":      `{{{`,
		"trailing data": `[] garbage`,
		"empty record":  `[{"title": "", "content": ""}]`,
	}

	for name, payload := range cases {
		_, err := svc.ImportNotes(ctx, strings.NewReader(payload))
		if !errors.Is(err, entities.ErrMalformedImport) {
			t.Errorf("%s: err = %v, want ErrMalformedImport", name, err)
		}
	}

	notes, err := noteRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("failed imports must not write, got %d notes", len(notes))
	}
}

func TestTransfer_ImportJournalValidatesRecords(t *testing.T) {
	svc, _, journalRepo := newTransferFixture(t)
	ctx := context.Background()

	for name, payload := range map[string]string{
		"bad date": `[{"date": "29-08-2026", "content": "x"}]`,
		"bad mood": `[{"date": "2026-08-29", "content": "x", "mood": "furious"}]`,
	} {
		_, err := svc.ImportJournal(ctx, strings.NewReader(payload))
		if !errors.Is(err, entities.ErrMalformedImport) {
			t.Errorf("%s: err = %v, want ErrMalformedImport", name, err)
		}
	}

	entries, _ := journalRepo.List(ctx)
	if len(entries) != 0 {
		t.Fatalf("failed imports must not write, got %d entries", len(entries))
	}
}
