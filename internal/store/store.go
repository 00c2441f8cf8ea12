// Package store holds the ordered, append-only record collections backing a session.
package store

import "gradebook/internal/model"

// Store is an ordered, append-only collection of records.
type Store interface {
	Add(rec model.Record) error
	Records() ([]model.Record, error)
	Len() (int, error)
	// Clear drops every record. Only called when the owning session ends.
	Clear() error
}

// Factory creates the store for a new session.
type Factory func(sessionID string) Store
