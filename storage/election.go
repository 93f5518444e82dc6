package storage

import (
	"github.com/thresholdvote/core/types"
)

// SetElection creates or overwrites an election record.
func (s *Storage) SetElection(e *types.Election) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := setArtifact(wTx, electionPrefix, []byte(e.ID), e); err != nil {
		return err
	}
	return wTx.Commit()
}

// Election retrieves an election by ID.
func (s *Storage) Election(id string) (*types.Election, error) {
	e := &types.Election{}
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	if err := getArtifact(rTx, electionPrefix, []byte(id), e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListElections returns every stored election.
func (s *Storage) ListElections() ([]*types.Election, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, electionPrefix, nil)
	if err != nil {
		return nil, err
	}
	elections := make([]*types.Election, 0, len(keys))
	for _, key := range keys {
		e := &types.Election{}
		if err := getArtifact(rTx, electionPrefix, key, e); err != nil {
			return nil, err
		}
		elections = append(elections, e)
	}
	return elections, nil
}
