// Package storage provides database abstractions and the persistence
// ports the vault session writes through.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Open opens the named backend. path is the badger directory and is
// ignored by the memory backend.
func Open(backend, path string) (DB, error) {
	switch backend {
	case BackendBadger:
		return NewBadger(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
