package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zephyr-app/core/internal/infrastructure/database"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
)

// Store is the key-value blob adapter over the embedded sqlite file. One
// logical collection is one key holding one JSON blob; every save overwrites
// the whole blob (last write wins). All operations are synchronous from the
// caller's point of view.
//
// A blob that no longer parses is not a fatal condition: the key is dropped,
// the incident logged, and the read reported as a miss so the caller falls
// back to defaults.
type Store struct {
	db     *database.DB
	logger *logger.Logger
	mu     sync.Mutex

	reads  *prometheus.CounterVec
	writes *prometheus.CounterVec
}

// NewStore creates the sqlite-backed store. The registry may be nil when
// metrics are disabled.
func NewStore(db *database.DB, appLogger *logger.Logger, registry *prometheus.Registry) *Store {
	s := &Store{
		db:     db,
		logger: appLogger.WithComponent("store"),
		reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zephyr_store_reads_total",
				Help: "Total number of store reads by outcome",
			},
			[]string{"key", "status"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zephyr_store_writes_total",
				Help: "Total number of store writes by outcome",
			},
			[]string{"key", "status"},
		),
	}

	if registry != nil {
		registry.MustRegister(s.reads, s.writes)
	}

	return s
}

// Read loads and decodes the blob under key into dest. It reports
// (false, nil) when the key is absent. A corrupt blob is discarded and
// reported as absent.
func (s *Store) Read(ctx context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.DB.GetContext(ctx, &raw, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		s.reads.WithLabelValues(key, "miss").Inc()
		return false, nil
	}
	if err != nil {
		s.reads.WithLabelValues(key, "error").Inc()
		return false, fmt.Errorf("read key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Reset the corrupt key so subsequent loads start clean.
		s.logger.Warnw("Discarding corrupt blob", "key", key, "error", err.Error())
		s.reads.WithLabelValues(key, "corrupt").Inc()
		if _, delErr := s.db.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); delErr != nil {
			s.logger.Errorw("Failed to reset corrupt key", "key", key, "error", delErr.Error())
		}
		return false, nil
	}

	s.reads.WithLabelValues(key, "hit").Inc()
	return true, nil
}

// Write serializes value and overwrites the blob under key.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		s.writes.WithLabelValues(key, "encode_error").Inc()
		s.logger.LogStoreWrite(key, err)
		return fmt.Errorf("encode key %q: %w", key, err)
	}

	_, err = s.db.DB.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		s.writes.WithLabelValues(key, "error").Inc()
		s.logger.LogStoreWrite(key, err)
		return fmt.Errorf("write key %q: %w", key, err)
	}

	s.writes.WithLabelValues(key, "ok").Inc()
	s.logger.LogStoreWrite(key, nil)
	return nil
}

// Delete removes the blob under key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}
