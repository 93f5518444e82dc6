package election

import (
	"github.com/google/uuid"

	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
	"github.com/thresholdvote/core/util"
)

const (
	mainCodeBytes      = 16
	candidateCodeBytes = 4
)

// CodeSheet generates per-voter code entries for an election (§4.2).
type CodeSheet struct {
	store *storage.Storage
}

// NewCodeSheet constructs a CodeSheet over the given storage.
func NewCodeSheet(store *storage.Storage) *CodeSheet {
	return &CodeSheet{store: store}
}

// GenerateBulk creates a CodeEntry for every voter in voterIDs lacking
// one for electionID. Already-entered voters are re-listed, not
// rewritten: the (voter, election) uniqueness constraint makes repeated
// calls with an overlapping voter list safe.
func (cs *CodeSheet) GenerateBulk(electionID string, voterIDs []string) ([]*types.CodeEntry, error) {
	candidates, err := cs.store.ListCandidates(electionID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates()
	}
	if len(voterIDs) == 0 {
		return nil, ErrNoEligibleVoters()
	}

	entries := make([]*types.CodeEntry, 0, len(voterIDs))
	for _, voterID := range voterIDs {
		entry := &types.CodeEntry{
			ID:            uuid.NewString(),
			ElectionID:    electionID,
			VoterID:       voterID,
			MainCode:      util.RandomHex(mainCodeBytes),
			CandidateCode: make(map[string]string, len(candidates)),
		}
		for _, c := range candidates {
			entry.CandidateCode[c.ID] = util.RandomHex(candidateCodeBytes)
		}

		if err := cs.store.CreateCodeEntry(entry); err != nil {
			if err == storage.ErrKeyAlreadyExists {
				// Already entered: re-list the existing sheet rather
				// than rewriting it, so re-running GenerateBulk with an
				// overlapping voter list returns every voter's code,
				// old and new.
				existing, lookupErr := cs.store.CodeEntryByVoter(electionID, voterID)
				if lookupErr != nil {
					return nil, lookupErr
				}
				entries = append(entries, existing)
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
