package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"nivesh_pathshala/services/ipo"
)

// SnapshotDBPath is the local SQLite file backing provider snapshots.
const SnapshotDBPath = "data/snapshots.db"

// SnapshotStore persists the last good provider payloads to a local
// SQLite file so restarts can serve stale data instead of samples.
type SnapshotStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Global snapshot store
var GlobalSnapshotStore *SnapshotStore

// InitSnapshotStore opens the local SQLite file and prepares tables.
func InitSnapshotStore() error {
	return InitSnapshotStoreAt(SnapshotDBPath)
}

// InitSnapshotStoreAt opens a store at a specific path.
func InitSnapshotStoreAt(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping snapshot store: %w", err)
	}

	GlobalSnapshotStore = &SnapshotStore{db: db}

	if err := GlobalSnapshotStore.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("Snapshot store initialized at %s", path)
	return nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SnapshotStore) createTables() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key VARCHAR PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return nil
}

// saveSnapshot upserts one JSON payload under a key.
func (s *SnapshotStore) saveSnapshot(key string, payload interface{}, fetchedAt time.Time) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT OR REPLACE INTO snapshots (key, payload, fetched_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, key, string(data), fetchedAt, time.Now()); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// loadSnapshot reads one JSON payload by key.
func (s *SnapshotStore) loadSnapshot(key string, out interface{}) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	var fetchedAt time.Time
	err := s.db.QueryRow("SELECT payload, fetched_at FROM snapshots WHERE key = ?", key).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("snapshot %s not found", key)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return fetchedAt, nil
}

// SaveIPOs persists the last good IPO list.
func (s *SnapshotStore) SaveIPOs(ipos []ipo.IPO, fetchedAt time.Time) error {
	return s.saveSnapshot("ipos", ipos, fetchedAt)
}

// LoadIPOs returns the last persisted IPO list and its fetch time.
func (s *SnapshotStore) LoadIPOs() ([]ipo.IPO, time.Time, error) {
	var ipos []ipo.IPO
	fetchedAt, err := s.loadSnapshot("ipos", &ipos)
	if err != nil {
		return nil, time.Time{}, err
	}
	return ipos, fetchedAt, nil
}
