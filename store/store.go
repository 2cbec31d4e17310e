// Package store provides small synchronous key-value stores used to persist
// widget state such as scroll offsets between runs.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("store closed")
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Entry is one stored key with its value.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Backend is a Store that can also enumerate and delete its keys.
type Backend interface {
	Store
	// List returns all entries whose key starts with prefix, sorted by key.
	List(prefix string) ([]Entry, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Open opens the named backend. path is ignored for the memory backend.
func Open(backend, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key cannot be empty")
	}
	return nil
}
