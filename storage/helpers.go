package storage

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	coredb "github.com/thresholdvote/core/storage/db"
	"github.com/thresholdvote/core/storage/db/prefixeddb"
)

// setArtifact gob-encodes artifact and stores it under prefix+key within
// wTx, which the caller commits. Used inside multi-step transactions
// where several writes must land atomically.
func setArtifact(wTx coredb.WriteTx, prefix, key []byte, artifact any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(artifact); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return prefixeddb.NewPrefixedWriteTx(wTx, prefix).Set(key, buf.Bytes())
}

// getArtifact decodes the value stored under prefix+key into artifact
// (a pointer), using reader (a snapshot, a write-tx, or the database
// handle itself — all satisfy db.Reader).
func getArtifact(reader coredb.Reader, prefix, key []byte, artifact any) error {
	raw, err := prefixeddb.NewPrefixedReader(reader, prefix).Get(key)
	if err != nil {
		if errors.Is(err, coredb.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(artifact); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

func deleteArtifact(wTx coredb.WriteTx, prefix, key []byte) error {
	return prefixeddb.NewPrefixedWriteTx(wTx, prefix).Delete(key)
}

// listKeys returns every key stored under prefix, optionally scoped to
// an additional innerPrefix (e.g. all candidates for one election).
func listKeys(reader coredb.Reader, prefix, innerPrefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := prefixeddb.NewPrefixedReader(reader, prefix).Iterate(innerPrefix, func(k, _ []byte) bool {
		keys = append(keys, append([]byte{}, k...))
		return true
	})
	return keys, err
}

// exists reports whether prefix+key is present, using reader directly
// (no decode).
func exists(reader coredb.Reader, prefix, key []byte) (bool, error) {
	_, err := prefixeddb.NewPrefixedReader(reader, prefix).Get(key)
	if err != nil {
		if errors.Is(err, coredb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
