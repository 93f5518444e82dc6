package storage

import (
	"fmt"
	"time"

	"github.com/thresholdvote/core/types"
)

func voterCodeIndexKey(electionID, voterID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, voterID))
}

func mainCodeIndexKey(electionID, mainCode string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, mainCode))
}

// CreateCodeEntry stores a new code sheet, enforcing that at most one
// exists per (electionID, voterID) and that main codes are globally
// unique within the election so redemption lookups are unambiguous.
// All writes land in a single transaction.
func (s *Storage) CreateCodeEntry(entry *types.CodeEntry) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()

	voterKey := voterCodeIndexKey(entry.ElectionID, entry.VoterID)
	if ok, err := exists(wTx, voterCodeIndexPx, voterKey); err != nil {
		return err
	} else if ok {
		return ErrKeyAlreadyExists
	}

	mainKey := mainCodeIndexKey(entry.ElectionID, entry.MainCode)
	if ok, err := exists(wTx, mainCodeIndexPx, mainKey); err != nil {
		return err
	} else if ok {
		return ErrKeyAlreadyExists
	}

	if err := setArtifact(wTx, codeEntryPrefix, []byte(entry.ID), entry); err != nil {
		return err
	}
	if err := setArtifact(wTx, voterCodeIndexPx, voterKey, entry.ID); err != nil {
		return err
	}
	if err := setArtifact(wTx, mainCodeIndexPx, mainKey, entry.ID); err != nil {
		return err
	}
	return wTx.Commit()
}

// CodeEntry retrieves a code sheet by ID.
func (s *Storage) CodeEntry(id string) (*types.CodeEntry, error) {
	entry := &types.CodeEntry{}
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	if err := getArtifact(rTx, codeEntryPrefix, []byte(id), entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CodeEntryByVoter resolves a (electionID, voterID) pair to its existing
// code sheet, letting GenerateBulk re-list a voter's prior entry instead
// of dropping it on a collision.
func (s *Storage) CodeEntryByVoter(electionID, voterID string) (*types.CodeEntry, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	var id string
	if err := getArtifact(rTx, voterCodeIndexPx, voterCodeIndexKey(electionID, voterID), &id); err != nil {
		return nil, err
	}
	entry := &types.CodeEntry{}
	if err := getArtifact(rTx, codeEntryPrefix, []byte(id), entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CodeEntryByMainCode resolves a main code to its code sheet, the lookup
// the blind issuer performs when a voter redeems a code for a token.
func (s *Storage) CodeEntryByMainCode(electionID, mainCode string) (*types.CodeEntry, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	var id string
	if err := getArtifact(rTx, mainCodeIndexPx, mainCodeIndexKey(electionID, mainCode), &id); err != nil {
		return nil, err
	}
	entry := &types.CodeEntry{}
	if err := getArtifact(rTx, codeEntryPrefix, []byte(id), entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkMainCodeUsed atomically checks that the code has not already been
// redeemed and marks it used, preventing two concurrent redemptions of
// the same main code from both succeeding.
func (s *Storage) MarkMainCodeUsed(id string) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()

	entry := &types.CodeEntry{}
	if err := getArtifact(wTx, codeEntryPrefix, []byte(id), entry); err != nil {
		return err
	}
	if entry.MainCodeUsed {
		return fmt.Errorf("storage: main code for entry %s already used", id)
	}
	entry.MainCodeUsed = true
	entry.MainCodeUsedAt = time.Now().UTC()
	if err := setArtifact(wTx, codeEntryPrefix, []byte(id), entry); err != nil {
		return err
	}
	return wTx.Commit()
}
