package storage

import (
	"encoding/binary"
	"fmt"

	coredb "github.com/thresholdvote/core/storage/db"
	"github.com/thresholdvote/core/types"
)

// bulletinEntryKey packs electionID and sequence into a key that sorts in
// chain order within the election's namespace.
func bulletinEntryKey(electionID string, sequence int64) []byte {
	key := make([]byte, 0, len(electionID)+1+8)
	key = append(key, electionID...)
	key = append(key, '/')
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, uint64(sequence))
	return append(key, seqBytes...)
}

// LastBulletinEntry returns the highest-sequence entry for an election,
// or ErrNotFound if the chain is empty.
func (s *Storage) LastBulletinEntry(electionID string) (*types.BulletinEntry, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	return s.lastBulletinEntryTx(rTx, electionID)
}

func (s *Storage) lastBulletinEntryTx(reader coredb.Reader, electionID string) (*types.BulletinEntry, error) {
	keys, err := listKeys(reader, bulletinPrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNotFound
	}
	// listKeys iterates in ascending key order; sequence numbers are
	// fixed-width big-endian so the last key is the highest sequence.
	lastKey := keys[len(keys)-1]
	entry := &types.BulletinEntry{}
	if err := getArtifact(reader, bulletinPrefix, lastKey, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AppendBulletinEntry assigns the next sequence number for electionID,
// computes its chain hash against the previous entry, and stores it. The
// append-lock serializes concurrent appends into the same election's
// chain so sequence numbers never collide or skip.
func (s *Storage) AppendBulletinEntry(entry *types.BulletinEntry, entryHash func(previousHash string, sequence int64) (string, error)) (*types.BulletinEntry, error) {
	s.bulletinAppendLock.Lock()
	defer s.bulletinAppendLock.Unlock()

	wTx := s.db.WriteTx()
	defer wTx.Discard()

	previousHash := ""
	sequence := int64(1)
	if last, err := s.lastBulletinEntryTx(wTx, entry.ElectionID); err == nil {
		previousHash = last.EntryHash
		sequence = last.Sequence + 1
	} else if err != ErrNotFound {
		return nil, err
	}

	entry.Sequence = sequence
	entry.PreviousHash = previousHash
	hash, err := entryHash(previousHash, sequence)
	if err != nil {
		return nil, fmt.Errorf("compute entry hash: %w", err)
	}
	entry.EntryHash = hash

	if err := setArtifact(wTx, bulletinPrefix, bulletinEntryKey(entry.ElectionID, sequence), entry); err != nil {
		return nil, err
	}
	if err := wTx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListBulletinEntries returns the full chain for an election, in sequence
// order, for chain verification and public display.
func (s *Storage) ListBulletinEntries(electionID string) ([]*types.BulletinEntry, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, bulletinPrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	entries := make([]*types.BulletinEntry, 0, len(keys))
	for _, key := range keys {
		e := &types.BulletinEntry{}
		if err := getArtifact(rTx, bulletinPrefix, key, e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
