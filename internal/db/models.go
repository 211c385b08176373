// Package db provides SQLite-backed key/value storage for shimteo's persisted state.
package db

import "time"

// Entry is one stored value.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
