package storage

import (
	"context"
	"testing"
)

func TestMemory_MissingKeyIsNotAnError(t *testing.T) {
	m := NewMemory()

	var out map[string]string
	found, err := m.Read(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if found {
		t.Fatal("expected miss for absent key")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Write(ctx, "k", map[string]int{"a": 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var out map[string]int
	found, err := m.Read(ctx, "k", &out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !found || out["a"] != 1 {
		t.Fatalf("unexpected read result: found=%v out=%v", found, out)
	}
}

func TestMemory_CorruptBlobIsDiscarded(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Seed("k", []byte("{not json"))

	var out map[string]int
	found, err := m.Read(ctx, "k", &out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if found {
		t.Fatal("expected corrupt blob to read as a miss")
	}

	// The corrupt value is gone; a fresh write works and reads back clean.
	if err := m.Write(ctx, "k", map[string]int{"a": 2}); err != nil {
		t.Fatalf("Write after discard failed: %v", err)
	}
	found, err = m.Read(ctx, "k", &out)
	if err != nil || !found || out["a"] != 2 {
		t.Fatalf("unexpected state after rewrite: found=%v out=%v err=%v", found, out, err)
	}
}

func TestMemory_FailWritesSurfacesError(t *testing.T) {
	m := NewMemory()
	m.FailWrites = true

	if err := m.Write(context.Background(), "k", "v"); err == nil {
		t.Fatal("expected write failure")
	}
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Delete(ctx, "absent"); err != nil {
		t.Fatalf("Delete of absent key failed: %v", err)
	}

	if err := m.Write(ctx, "k", 1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var out int
	found, _ := m.Read(ctx, "k", &out)
	if found {
		t.Fatal("expected key gone after delete")
	}
}
