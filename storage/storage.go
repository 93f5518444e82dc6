// Package storage contains all the entities persisted by this module,
// plus the prefixed key-value store that backs them. The following
// prefixes are used:
//   - "e/"  for elections
//   - "c/"  for candidates (keyed electionID + candidateID)
//   - "ts/" for trustee slots
//   - "ce/" for code entries
//   - "tk/" for anonymous tokens
//   - "bl/" for ballots
//   - "bu/" for bulletin entries
//   - "rs/" for election results
//
// Reads and writes go through gob encoding, the same artifact-encoding
// idiom the teacher's storage package uses throughout.
package storage

import (
	"fmt"
	"sync"

	"github.com/thresholdvote/core/storage/db"
)

var (
	electionPrefix   = []byte("e/")
	candidatePrefix  = []byte("c/")
	trusteePrefix    = []byte("ts/")
	codeEntryPrefix  = []byte("ce/")
	tokenPrefix      = []byte("tk/")
	ballotPrefix     = []byte("bl/")
	bulletinPrefix   = []byte("bu/")
	resultPrefix     = []byte("rs/")
	tokenHashIndexPx = []byte("tkh/") // tokenHash -> token ID, for uniqueness checks
	voterCodeIndexPx = []byte("vc/")  // electionID+voterID -> code entry ID, enforces one sheet per voter
	mainCodeIndexPx  = []byte("mc/")  // electionID+mainCode -> code entry ID, for redemption lookups
	ballotHashIndexPx = []byte("bh/") // electionID+ballotHash -> ballot ID, rejects byte-identical duplicate casts

	// ErrKeyAlreadyExists is returned when a uniqueness constraint
	// (e.g. one code entry per voter per election) is violated.
	ErrKeyAlreadyExists = fmt.Errorf("storage: key already exists")
	// ErrNotFound is returned when a lookup key is absent.
	ErrNotFound = fmt.Errorf("storage: not found")
	// ErrDuplicateBallot is returned by CastBallot when the election
	// already has a byte-identical encrypted_vote recorded.
	ErrDuplicateBallot = fmt.Errorf("storage: duplicate ballot")
	// ErrCodeAlreadyUsed is returned by IssueToken when the code entry's
	// main code was already consumed by a prior (or concurrent) redemption.
	ErrCodeAlreadyUsed = fmt.Errorf("storage: main code already used")
)

// Storage is the single entry point for all persisted reads and writes.
// bulletinAppendLock serializes bulletin-board appends so that sequence
// numbers are assigned without gaps under concurrent callers, the
// hand-rolled equivalent of SELECT ... FOR UPDATE on the last row.
type Storage struct {
	db                 db.Database
	bulletinAppendLock sync.Mutex
}

// New wraps an already-open db.Database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close releases the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}
