package storage

import (
	"fmt"

	"github.com/thresholdvote/core/types"
)

func resultKey(electionID, candidateID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, candidateID))
}

// SetElectionResult stores one candidate's tallied count.
func (s *Storage) SetElectionResult(r *types.ElectionResult) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := setArtifact(wTx, resultPrefix, resultKey(r.ElectionID, r.CandidateID), r); err != nil {
		return err
	}
	return wTx.Commit()
}

// ListElectionResults returns every candidate's tallied count for an
// election.
func (s *Storage) ListElectionResults(electionID string) ([]*types.ElectionResult, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, resultPrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	results := make([]*types.ElectionResult, 0, len(keys))
	for _, key := range keys {
		r := &types.ElectionResult{}
		if err := getArtifact(rTx, resultPrefix, key, r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
