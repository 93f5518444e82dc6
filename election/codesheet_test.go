package election_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/election"
	"github.com/thresholdvote/core/types"
)

func seedCandidates(t *testing.T, s interface {
	SetCandidate(*types.Candidate) error
}, electionID string, labels ...string) {
	for i, label := range labels {
		qt.New(t).Assert(s.SetCandidate(&types.Candidate{
			ID:           label,
			ElectionID:   electionID,
			DisplayOrder: i,
			Label:        label,
		}), qt.IsNil)
	}
}

func TestGenerateBulkCreatesOneEntryPerVoter(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedCandidates(t, s, "e1", "alice", "bob")

	cs := election.NewCodeSheet(s)
	entries, err := cs.GenerateBulk("e1", []string{"v1", "v2", "v3"})
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 3)
	for _, entry := range entries {
		c.Assert(entry.CandidateCode, qt.HasLen, 2)
		c.Assert(entry.MainCode, qt.Not(qt.Equals), "")
	}
}

func TestGenerateBulkRejectsNoCandidates(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	cs := election.NewCodeSheet(s)
	_, err := cs.GenerateBulk("e1", []string{"v1"})
	c.Assert(err, qt.ErrorMatches, ".*NoCandidates.*")
}

func TestGenerateBulkRejectsNoVoters(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedCandidates(t, s, "e1", "alice")

	cs := election.NewCodeSheet(s)
	_, err := cs.GenerateBulk("e1", nil)
	c.Assert(err, qt.ErrorMatches, ".*NoEligibleVoters.*")
}

func TestGenerateBulkReListsExistingEntriesOnOverlap(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedCandidates(t, s, "e1", "alice")

	cs := election.NewCodeSheet(s)
	first, err := cs.GenerateBulk("e1", []string{"v1"})
	c.Assert(err, qt.IsNil)
	c.Assert(first, qt.HasLen, 1)

	// Re-running with an overlapping voter list re-lists v1's existing
	// entry (unchanged) alongside v2's freshly minted one, rather than
	// dropping v1 from the result.
	second, err := cs.GenerateBulk("e1", []string{"v1", "v2"})
	c.Assert(err, qt.IsNil)
	c.Assert(second, qt.HasLen, 2)
	c.Assert(second[0].VoterID, qt.Equals, "v1")
	c.Assert(second[0].MainCode, qt.Equals, first[0].MainCode)
	c.Assert(second[1].VoterID, qt.Equals, "v2")
}
