package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process implementation of the same blob contract as Store,
// backed by a map. It mirrors Store's corrupt-blob behavior so repository
// tests exercise the real failure semantics.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites forces every Write to fail, simulating quota exhaustion.
	FailWrites bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Seed places a raw blob under key, bypassing encoding. Tests use it to
// plant corrupt values.
func (m *Memory) Seed(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
}

func (m *Memory) Read(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		delete(m.data, key)
		return false, nil
	}

	return true, nil
}

func (m *Memory) Write(ctx context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("write key %q: storage quota exceeded", key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode key %q: %w", key, err)
	}

	m.data[key] = raw
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
