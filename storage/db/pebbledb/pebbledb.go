// Package pebbledb implements db.Database on top of CockroachDB's pebble
// LSM-tree engine, the same engine family the teacher's storage stack is
// built on.
package pebbledb

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/thresholdvote/core/storage/db"
)

// pebbleDB wraps a *pebble.DB to satisfy db.Database.
type pebbleDB struct {
	pdb *pebble.DB
}

// New opens (creating if necessary) a pebble database at opts.Path. An
// empty Path opens an in-memory database, used by tests.
func New(opts db.Options) (db.Database, error) {
	pebbleOpts := &pebble.Options{}
	path := opts.Path
	if path == "" {
		pebbleOpts.FS = vfs.NewMem()
		path = ""
	}
	pdb, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("open pebble database: %w", err)
	}
	return &pebbleDB{pdb: pdb}, nil
}

func (p *pebbleDB) WriteTx() db.WriteTx {
	return &pebbleWriteTx{pdb: p.pdb, batch: p.pdb.NewIndexedBatch()}
}

func (p *pebbleDB) ReadTx() db.ReadTx {
	return &pebbleReadTx{snapshot: p.pdb.NewSnapshot()}
}

func (p *pebbleDB) Close() error {
	return p.pdb.Close()
}

type pebbleWriteTx struct {
	pdb   *pebble.DB
	batch *pebble.Batch
}

func (tx *pebbleWriteTx) Get(key []byte) ([]byte, error) {
	value, closer, err := tx.batch.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (tx *pebbleWriteTx) Set(key, value []byte) error {
	return tx.batch.Set(key, value, nil)
}

func (tx *pebbleWriteTx) Delete(key []byte) error {
	return tx.batch.Delete(key, nil)
}

func (tx *pebbleWriteTx) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return iterate(tx.batch, prefix, fn)
}

func (tx *pebbleWriteTx) Commit() error {
	return tx.batch.Commit(pebble.Sync)
}

func (tx *pebbleWriteTx) Discard() {
	_ = tx.batch.Close()
}

type pebbleReadTx struct {
	snapshot *pebble.Snapshot
}

func (tx *pebbleReadTx) Get(key []byte) ([]byte, error) {
	value, closer, err := tx.snapshot.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (tx *pebbleReadTx) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return iterate(tx.snapshot, prefix, fn)
}

func (tx *pebbleReadTx) Discard() {
	_ = tx.snapshot.Close()
}

// iterable is the subset of *pebble.Batch / *pebble.Snapshot needed to
// iterate, so both transaction kinds can share one iteration helper.
type iterable interface {
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

func iterate(src iterable, prefix []byte, fn func(key, value []byte) bool) error {
	var iterOpts *pebble.IterOptions
	if len(prefix) > 0 {
		iterOpts = &pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: prefixUpperBound(prefix),
		}
	}
	iter, err := src.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("new iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := append([]byte{}, iter.Key()...)
		value := append([]byte{}, iter.Value()...)
		if !fn(key, value) {
			break
		}
	}
	return iter.Error()
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, for use as a pebble iterator's exclusive upper bound.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte{}, prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil // prefix is all 0xff, no upper bound
}
