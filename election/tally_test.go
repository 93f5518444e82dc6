package election_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/election"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

func seedClosedElectionWithBallots(t *testing.T, s *storage.Storage, threshold, total, ballotCount int) *types.Election {
	e := seedElection(t, s, threshold, total)
	seedCandidates(t, s, e.ID, "alice", "bob")
	e.Status = types.StatusClosed
	qt.New(t).Assert(s.SetElection(e), qt.IsNil)

	for i := 0; i < ballotCount; i++ {
		tok := &types.AnonymousToken{ID: idFor(i), ElectionID: e.ID, TokenHash: idFor(i)}
		qt.New(t).Assert(s.CreateToken(tok), qt.IsNil)
		ballot := &types.Ballot{ID: "ballot-" + idFor(i), ElectionID: e.ID, Hash: "hash-" + idFor(i), TokenHash: idFor(i)}
		qt.New(t).Assert(s.CastBallot(ballot, tok.ID), qt.IsNil)
	}
	return e
}

func idFor(i int) string {
	return "tok-" + string(rune('a'+i))
}

func submitAllShares(t *testing.T, s *storage.Storage, electionID string, ballots []*types.Ballot) {
	slots, err := s.ListTrusteeSlots(electionID)
	qt.New(t).Assert(err, qt.IsNil)
	sub := election.NewTrusteeShareSubmission(s, nil)
	for _, slot := range slots {
		partials := make(map[string]types.HexBytes, len(ballots))
		for _, b := range ballots {
			partials[b.ID] = types.HexBytes([]byte("partial-" + slot.ID + "-" + b.ID))
		}
		qt.New(t).Assert(sub.Submit(electionID, slot.ID, partials), qt.IsNil)
	}
}

func TestThresholdTallyPublishesResultsAfterQuorum(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	e := seedClosedElectionWithBallots(t, s, 2, 3, 4)

	ballots, err := s.ListBallots(e.ID)
	c.Assert(err, qt.IsNil)
	submitAllShares(t, s, e.ID, ballots)

	chain := bulletin.New(s)
	tally := election.NewThresholdTally(s, chain)
	c.Assert(tally.Tally(e.ID), qt.IsNil)

	results, err := s.ListElectionResults(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(results, qt.HasLen, 2)

	total := 0
	for _, r := range results {
		c.Assert(r.Verified, qt.IsTrue)
		total += r.VoteCount
	}
	c.Assert(total, qt.Equals, 4)

	got, err := s.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, types.StatusTallied)

	entries, err := s.ListBulletinEntries(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(entries[len(entries)-1].EntryType, qt.Equals, types.EntryResultPublished)
}

func TestThresholdTallyRejectsWrongStatus(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	e := seedElection(t, s, 2, 3)
	seedCandidates(t, s, e.ID, "alice", "bob")

	tally := election.NewThresholdTally(s, nil)
	err := tally.Tally(e.ID)
	c.Assert(err, qt.ErrorMatches, ".*WrongStatus.*")
}

func TestThresholdTallyCombinesFirstTByTrusteeIndex(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	e := seedClosedElectionWithBallots(t, s, 2, 3, 4)

	ballots, err := s.ListBallots(e.ID)
	c.Assert(err, qt.IsNil)

	slots, err := s.ListTrusteeSlots(e.ID)
	c.Assert(err, qt.IsNil)
	bySlotIndex := make(map[int]*types.TrusteeSlot, len(slots))
	for _, slot := range slots {
		bySlotIndex[slot.TrusteeIndex] = slot
	}

	sub := election.NewTrusteeShareSubmission(s, nil)
	partialsFor := func(id string) map[string]types.HexBytes {
		partials := make(map[string]types.HexBytes, len(ballots))
		for _, b := range ballots {
			partials[b.ID] = types.HexBytes([]byte("partial-" + id + "-" + b.ID))
		}
		return partials
	}
	// Trustees 0 and 1 submit first.
	c.Assert(sub.Submit(e.ID, bySlotIndex[0].ID, partialsFor("t0")), qt.IsNil)
	c.Assert(sub.Submit(e.ID, bySlotIndex[1].ID, partialsFor("t1")), qt.IsNil)

	tally := election.NewThresholdTally(s, nil)
	c.Assert(tally.Tally(e.ID), qt.IsNil)
	firstResults, err := s.ListElectionResults(e.ID)
	c.Assert(err, qt.IsNil)
	firstCounts := make(map[string]int, len(firstResults))
	for _, r := range firstResults {
		firstCounts[r.CandidateID] = r.VoteCount
	}

	// Reopen and let the third trustee (index 2) submit late, then
	// retally: the published result must be unchanged, since the
	// combine set is still the first two trustees by index.
	e.Status = types.StatusClosed
	c.Assert(s.SetElection(e), qt.IsNil)
	c.Assert(sub.Submit(e.ID, bySlotIndex[2].ID, partialsFor("t2")), qt.IsNil)
	c.Assert(tally.Tally(e.ID), qt.IsNil)

	secondResults, err := s.ListElectionResults(e.ID)
	c.Assert(err, qt.IsNil)
	for _, r := range secondResults {
		c.Assert(r.VoteCount, qt.Equals, firstCounts[r.CandidateID])
	}
}

func TestThresholdTallyRejectsBelowQuorum(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	e := seedClosedElectionWithBallots(t, s, 2, 3, 2)

	ballots, err := s.ListBallots(e.ID)
	c.Assert(err, qt.IsNil)

	// Only one of three trustees submits, below the threshold of 2.
	slots, err := s.ListTrusteeSlots(e.ID)
	c.Assert(err, qt.IsNil)
	sub := election.NewTrusteeShareSubmission(s, nil)
	partials := make(map[string]types.HexBytes, len(ballots))
	for _, b := range ballots {
		partials[b.ID] = types.HexBytes([]byte("partial"))
	}
	c.Assert(sub.Submit(e.ID, slots[0].ID, partials), qt.IsNil)

	tally := election.NewThresholdTally(s, nil)
	err = tally.Tally(e.ID)
	c.Assert(err, qt.ErrorMatches, ".*InsufficientQuorum.*")
}
