// Package bulletin implements the hash-chained append-only event log of
// §4.6. Appends are routed through storage.Storage, which owns the
// per-election serialization lock; this package supplies the hash
// function and the chain-verification walk, plus an optional remote
// BulletinClient for relaying entries to an external bulletin service
// (Design Note: "Bulletin HTTP side-effects... abstract as a
// BulletinClient capability" rather than calling requests inline the
// way bulletin_helper.py does).
package bulletin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thresholdvote/core/crypto/canonical"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

// Chain wraps a storage.Storage to append and verify one election's log,
// optionally relaying every append to an external bulletin service.
type Chain struct {
	store  *storage.Storage
	client Client
}

// New constructs a Chain over the given storage backend with no external
// relay: entries only ever live in local storage.
func New(store *storage.Storage) *Chain {
	return &Chain{store: store, client: NopClient{}}
}

// NewWithClient constructs a Chain that also relays every appended entry
// to client, the HTTP-backed bulletin service when
// config.BulletinServiceURL is configured.
func NewWithClient(store *storage.Storage, client Client) *Chain {
	if client == nil {
		client = NopClient{}
	}
	return &Chain{store: store, client: client}
}

// Append adds a new typed entry to electionID's chain, computing its hash
// against the current tail under the storage layer's append lock, then
// best-effort relays it to the configured Client. A relay failure never
// fails the append: per §7, bulletin-relay is a TransientError concern,
// not grounds for rejecting an already-committed local entry.
func (c *Chain) Append(electionID, entryType string, payload map[string]interface{}) (*types.BulletinEntry, error) {
	entry := &types.BulletinEntry{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		EntryType:  entryType,
		EntryData:  payload,
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := c.store.AppendBulletinEntry(entry, func(previousHash string, _ int64) (string, error) {
		return entryHash(payload, previousHash)
	})
	if err != nil {
		return nil, err
	}
	if c.client != nil {
		_ = c.client.Post(context.Background(), electionID, entryType, payload)
	}
	return stored, nil
}

// entryHash computes sha256(canonical_json(payload) || previousHash),
// the exact construction spec.md §4.6 names.
func entryHash(payload map[string]interface{}, previousHash string) (string, error) {
	canon, err := canonical.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}
	h := sha256.New()
	h.Write(canon)
	h.Write([]byte(previousHash))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyResult is the outcome of walking one election's chain.
type VerifyResult struct {
	Valid        bool   `json:"valid"`
	Message      string `json:"message"`
	TotalEntries int    `json:"totalEntries"`
}

// Verify walks electionID's chain in sequence order, checking that every
// entry's previous_hash matches its predecessor's entry_hash and that
// its stored hash matches a fresh recomputation. The first violation
// aborts with a message naming the offending sequence number.
func (c *Chain) Verify(electionID string) (*VerifyResult, error) {
	entries, err := c.store.ListBulletinEntries(electionID)
	if err != nil {
		return nil, err
	}

	var previousHash string
	for i, entry := range entries {
		if i > 0 && entry.PreviousHash != previousHash {
			return &VerifyResult{
				Valid:        false,
				Message:      fmt.Sprintf("entry %d: previous_hash does not match predecessor's entry_hash", entry.Sequence),
				TotalEntries: len(entries),
			}, nil
		}
		recomputed, err := entryHash(entry.EntryData, entry.PreviousHash)
		if err != nil {
			return nil, err
		}
		if recomputed != entry.EntryHash {
			return &VerifyResult{
				Valid:        false,
				Message:      fmt.Sprintf("entry %d: stored hash does not match recomputed hash", entry.Sequence),
				TotalEntries: len(entries),
			}, nil
		}
		previousHash = entry.EntryHash
	}

	return &VerifyResult{Valid: true, Message: "chain valid", TotalEntries: len(entries)}, nil
}
