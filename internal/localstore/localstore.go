// Package localstore is the durable local storage for the organizer: a
// small SQLite-backed key/value table holding the serialized household
// snapshot, plus push subscriptions and backup history.
package localstore

import (
	"database/sql"
	"fmt"
	"time"
)

type KV struct {
	db *sql.DB
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the stored value for key. The second return reports
// whether the key exists.
func (s *KV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes key to value, replacing any previous value.
func (s *KV) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KV) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// GetAll returns every key with the given prefix.
func (s *KV) GetAll(prefix string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM storage WHERE key LIKE ? ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}
