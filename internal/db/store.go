package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	);
`

// Store is a small key/value table in a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with WAL and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Get returns the entry for key, or nil when absent.
func (s *Store) Get(key string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT key, value, updatedAt FROM kv WHERE key = ?`, key)

	var e Entry
	var updatedAt float64
	if err := row.Scan(&e.Key, &e.Value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	e.UpdatedAt = timeFromUnix(updatedAt)
	return &e, nil
}

// Put inserts or replaces the value for key.
func (s *Store) Put(key, value string) error {
	now := float64(time.Now().UnixNano()) / 1e9
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updatedAt) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Blob adapts one key of the store to the load/save pair used by persisted state.
type Blob struct {
	store *Store
	key   string
}

// Blob returns an accessor for key.
func (s *Store) Blob(key string) *Blob {
	return &Blob{store: s, key: key}
}

// Load returns the stored bytes, or nil when the key is absent.
func (b *Blob) Load() ([]byte, error) {
	e, err := b.store.Get(b.key)
	if err != nil || e == nil {
		return nil, err
	}
	return []byte(e.Value), nil
}

// Save stores data under the key.
func (b *Blob) Save(data []byte) error {
	return b.store.Put(b.key, string(data))
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
