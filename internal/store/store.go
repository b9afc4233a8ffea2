/*
Package store keeps the ordered list of announcement links that were already notified.
*/
package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	JsonBackend   = "json"
	BadgerBackend = "badger"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Store is loaded in full at the start of a cycle, appended to in memory and
// flushed once at the end of it.
type Store interface {
	// Load returns every persisted link in notification order and resets staged links.
	Load() ([]string, error)
	// Append stages links after the loaded ones.
	Append(links ...string)
	// Flush persists the staged links.
	Flush() error
	Close() error
}

// Open creates the store for the named backend. path is a file for the json
// backend and a directory for the badger backend.
func Open(backend, path string, logger *zap.Logger) (Store, error) {
	switch backend {
	case JsonBackend, "":
		return NewJsonFile(path, logger), nil
	case BadgerBackend:
		return OpenBadger(path, logger)
	default:
		return nil, fmt.Errorf("[store] %w: %q", ErrUnknownBackend, backend)
	}
}
