package election_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/election"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/storage/db/metadb"
	"github.com/thresholdvote/core/types"
)

func newTestStorage(t *testing.T) *storage.Storage {
	return storage.New(metadb.NewTest(t))
}

func seedElection(t *testing.T, s *storage.Storage, threshold, total int) *types.Election {
	e := &types.Election{
		ID:             "e1",
		Title:          "Board Election",
		Status:         types.StatusDraft,
		ThresholdT:     threshold,
		TotalTrusteesN: total,
	}
	qt.New(t).Assert(s.SetElection(e), qt.IsNil)
	for i := 0; i < total; i++ {
		slot := &types.TrusteeSlot{
			ID:           uuidLike(i),
			ElectionID:   e.ID,
			VoterID:      uuidLike(i),
			TrusteeIndex: i,
		}
		qt.New(t).Assert(s.SetTrusteeSlot(slot), qt.IsNil)
	}
	return e
}

func uuidLike(i int) string {
	return "trustee-" + string(rune('a'+i))
}

func TestKeyCeremonyGeneratesAndSplitsKey(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedElection(t, s, 2, 3)

	kc := election.NewKeyCeremony(s, nil)
	pub, err := kc.Generate("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(pub, qt.HasLen, 32)

	got, err := s.Election("e1")
	c.Assert(err, qt.IsNil)
	c.Assert([]byte(got.PublicKey), qt.DeepEquals, []byte(pub))

	slots, err := s.ListTrusteeSlots("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(slots, qt.HasLen, 3)
	for _, slot := range slots {
		c.Assert(slot.Share, qt.Not(qt.IsNil))
		c.Assert(slot.Share.Threshold, qt.Equals, 2)
		c.Assert(slot.Share.TotalN, qt.Equals, 3)
	}
}

func TestKeyCeremonyRejectsSecondRun(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedElection(t, s, 2, 3)

	kc := election.NewKeyCeremony(s, nil)
	_, err := kc.Generate("e1")
	c.Assert(err, qt.IsNil)

	_, err = kc.Generate("e1")
	c.Assert(err, qt.ErrorMatches, ".*AlreadyCeremonied.*")
}

func TestKeyCeremonyRejectsTooFewTrustees(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	// Two slots exist for an election that names three trustees.
	e := seedElection(t, s, 2, 2)
	e.TotalTrusteesN = 3
	c.Assert(s.SetElection(e), qt.IsNil)

	kc := election.NewKeyCeremony(s, nil)
	_, err := kc.Generate("e1")
	c.Assert(err, qt.ErrorMatches, ".*InsufficientTrustees.*")
}

func TestKeyCeremonyAppendsBulletinEntry(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)
	seedElection(t, s, 2, 3)
	chain := bulletin.New(s)

	kc := election.NewKeyCeremony(s, chain)
	_, err := kc.Generate("e1")
	c.Assert(err, qt.IsNil)

	entries, err := s.ListBulletinEntries("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].EntryType, qt.Equals, types.EntryKeyGenerated)
}
