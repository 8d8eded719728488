package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Put stores data under key, replacing any previous value.
func (s *Store) Put(key string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot put %q: %w", key, err)
	}
	return nil
}

// Get returns the data stored under key. The bool is false when the key is absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM saves WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot get %q: %w", key, err)
	}
	return data, true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM saves WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM saves ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return keys, nil
}

// MemoryKV is an in-process key/value store with the same contract as the
// saves table. It is used when no database is available.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Put stores a copy of data under key.
func (m *MemoryKV) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.data[key] = buf
	return nil
}

// Get returns a copy of the data stored under key.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, true, nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Keys lists the stored keys in sorted order.
func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
