// package store provides persistence for the course library: a
// string-keyed blob store over SQLite and the Library type that keeps the
// course list and the progress records from diverging.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// querier is the subset of [sql.DB] and [sql.Tx] the store needs, so the
// same helpers serve both direct reads and transactional writes.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// KV is a durable string-keyed store with get/set semantics per key.
// Values round-trip through JSON losslessly.
type KV struct {
	db *sql.DB
}

// NewKV creates a KV over an open database. The kv table is created by
// the migrations in internal/shared.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get reads the value stored under key into dest. Returns false when the
// key is absent.
func (s *KV) Get(key string, dest any) (bool, error) {
	return kvGet(s.db, key, dest)
}

// Set serializes value and stores it under key, replacing any previous
// value.
func (s *KV) Set(key string, value any) error {
	return kvSet(s.db, key, value)
}

// Delete removes the value stored under key. Deleting an absent key is
// not an error.
func (s *KV) Delete(key string) error {
	return kvDelete(s.db, key)
}

func kvGet(q querier, key string, dest any) (bool, error) {
	var raw []byte
	err := q.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return true, nil
}

func kvSet(q querier, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := q.Exec(query, key, raw); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func kvDelete(q querier, key string) error {
	if _, err := q.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
