package storage

import (
	"fmt"

	"github.com/thresholdvote/core/types"
)

func candidateKey(electionID, candidateID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, candidateID))
}

// SetCandidate creates or overwrites a candidate record.
func (s *Storage) SetCandidate(c *types.Candidate) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := setArtifact(wTx, candidatePrefix, candidateKey(c.ElectionID, c.ID), c); err != nil {
		return err
	}
	return wTx.Commit()
}

// Candidate retrieves a single candidate.
func (s *Storage) Candidate(electionID, candidateID string) (*types.Candidate, error) {
	c := &types.Candidate{}
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	if err := getArtifact(rTx, candidatePrefix, candidateKey(electionID, candidateID), c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCandidates returns every candidate registered for an election, in
// storage order (by DisplayOrder is the caller's responsibility to sort).
func (s *Storage) ListCandidates(electionID string) ([]*types.Candidate, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, candidatePrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	candidates := make([]*types.Candidate, 0, len(keys))
	for _, key := range keys {
		c := &types.Candidate{}
		if err := getArtifact(rTx, candidatePrefix, key, c); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
