// Package metadb provides the factory the rest of the module uses to
// open a db.Database without depending on a concrete engine, matching
// the teacher's storage/db/metadb package.
package metadb

import (
	"cmp"
	"fmt"
	"os"
	"testing"

	"github.com/thresholdvote/core/storage/db"
	"github.com/thresholdvote/core/storage/db/pebbledb"
)

// New opens a Database of the given type at dir.
func New(typ, dir string) (db.Database, error) {
	switch typ {
	case db.TypePebble:
		return pebbledb.New(db.Options{Path: dir})
	default:
		return nil, fmt.Errorf("invalid dbType: %q. Available types: %q", typ, db.TypePebble)
	}
}

// ForTest returns the database engine to use in tests, honoring DB_TYPE
// for CI overrides and defaulting to pebble otherwise.
func ForTest() (typ string) {
	return cmp.Or(os.Getenv("DB_TYPE"), db.TypePebble)
}

// NewTest opens a throwaway in-memory database for a single test,
// registering cleanup automatically.
func NewTest(tb testing.TB) db.Database {
	database, err := New(ForTest(), "")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { _ = database.Close() })
	return database
}
