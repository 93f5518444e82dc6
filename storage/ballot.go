package storage

import (
	"fmt"

	"github.com/thresholdvote/core/types"
)

func ballotKey(electionID, ballotID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, ballotID))
}

func ballotHashIndexKey(electionID, ballotHash string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, ballotHash))
}

// CastBallot spends tokenID and stores ballot in a single transaction:
// either both happen or neither does, so a crash mid-cast can never leave
// a spent token with no recorded ballot or a stored ballot against an
// unspent token. It also rejects a byte-identical encrypted_vote already
// recorded for the same election with ErrDuplicateBallot.
func (s *Storage) CastBallot(ballot *types.Ballot, tokenID string) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()

	if err := markTokenUsedTx(wTx, tokenID); err != nil {
		return err
	}

	hashKey := ballotHashIndexKey(ballot.ElectionID, ballot.Hash)
	if ok, err := exists(wTx, ballotHashIndexPx, hashKey); err != nil {
		return err
	} else if ok {
		return ErrDuplicateBallot
	}

	if err := setArtifact(wTx, ballotPrefix, ballotKey(ballot.ElectionID, ballot.ID), ballot); err != nil {
		return err
	}
	if err := setArtifact(wTx, ballotHashIndexPx, hashKey, ballot.ID); err != nil {
		return err
	}
	return wTx.Commit()
}

// Ballot retrieves a single ballot.
func (s *Storage) Ballot(electionID, ballotID string) (*types.Ballot, error) {
	b := &types.Ballot{}
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	if err := getArtifact(rTx, ballotPrefix, ballotKey(electionID, ballotID), b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBallots returns every ballot cast in an election, for the trustee
// decryption pass and the ballot-review endpoint.
func (s *Storage) ListBallots(electionID string) ([]*types.Ballot, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, ballotPrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	ballots := make([]*types.Ballot, 0, len(keys))
	for _, key := range keys {
		b := &types.Ballot{}
		if err := getArtifact(rTx, ballotPrefix, key, b); err != nil {
			return nil, err
		}
		ballots = append(ballots, b)
	}
	return ballots, nil
}

// CountBallots returns the number of ballots cast in an election without
// decoding each one, for the dashboard stats endpoint.
func (s *Storage) CountBallots(electionID string) (int, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, ballotPrefix, []byte(electionID+"/"))
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
