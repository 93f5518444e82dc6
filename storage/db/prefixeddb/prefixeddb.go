// Package prefixeddb scopes a db.Database (or one of its transactions)
// to a fixed key prefix, the same "one physical store, many logical
// namespaces" idiom the teacher's storage package layers on top of
// go.vocdoni.io/dvote/db/prefixeddb.
package prefixeddb

import "github.com/thresholdvote/core/storage/db"

// NewPrefixedReader scopes a Reader to keys beginning with prefix; all
// keys passed in and returned are relative to that prefix.
func NewPrefixedReader(r db.Reader, prefix []byte) db.Reader {
	return &prefixedReader{inner: r, prefix: prefix}
}

// NewPrefixedWriteTx scopes a WriteTx to keys beginning with prefix.
func NewPrefixedWriteTx(tx db.WriteTx, prefix []byte) db.WriteTx {
	return &prefixedWriteTx{prefixedReader: prefixedReader{inner: tx, prefix: prefix}, inner: tx}
}

type prefixedReader struct {
	inner  db.Reader
	prefix []byte
}

func (p *prefixedReader) fullKey(key []byte) []byte {
	full := make([]byte, 0, len(p.prefix)+len(key))
	full = append(full, p.prefix...)
	full = append(full, key...)
	return full
}

func (p *prefixedReader) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.fullKey(key))
}

func (p *prefixedReader) Iterate(innerPrefix []byte, fn func(key, value []byte) bool) error {
	scanPrefix := p.fullKey(innerPrefix)
	return p.inner.Iterate(scanPrefix, func(key, value []byte) bool {
		return fn(key[len(p.prefix):], value)
	})
}

type prefixedWriteTx struct {
	prefixedReader
	inner db.WriteTx
}

func (p *prefixedWriteTx) Set(key, value []byte) error {
	return p.inner.Set(p.fullKey(key), value)
}

func (p *prefixedWriteTx) Delete(key []byte) error {
	return p.inner.Delete(p.fullKey(key))
}

func (p *prefixedWriteTx) Commit() error {
	return p.inner.Commit()
}

func (p *prefixedWriteTx) Discard() {
	p.inner.Discard()
}
