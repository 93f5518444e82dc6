// Package db defines the minimal key-value storage abstraction the rest
// of this module builds on: a Database that hands out read and write
// transactions, matching the shape go.vocdoni.io/dvote/db exposes to its
// callers (seen throughout the teacher's storage package), reimplemented
// here directly on top of github.com/cockroachdb/pebble since the
// upstream library's own source was not available to adapt.
package db

import "errors"

// TypePebble selects the pebble-backed Database implementation.
const TypePebble = "pebble"

// ErrNotFound is returned by Get and WriteTx.Get when a key is absent.
var ErrNotFound = errors.New("db: key not found")

// Options configures a Database at construction time.
type Options struct {
	// Path is the on-disk directory for the database files. Empty means
	// in-memory (used by tests).
	Path string
}

// Reader is the read-only subset of a transaction or database handle.
type Reader interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls fn for every key with the given prefix, in key order,
	// until fn returns false or the keys are exhausted. A nil prefix
	// iterates every key.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
}

// WriteTx is a read-write transaction. Writes are only durable once
// Commit succeeds; Discard abandons them.
type WriteTx interface {
	Reader
	Set(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Discard()
}

// ReadTx is a point-in-time read-only snapshot.
type ReadTx interface {
	Reader
	Discard()
}

// Database is a key-value store that hands out transactions.
type Database interface {
	WriteTx() WriteTx
	ReadTx() ReadTx
	Close() error
}
