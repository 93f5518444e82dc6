package storage_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/storage/db/metadb"
	"github.com/thresholdvote/core/types"
)

func newTestStorage(t *testing.T) *storage.Storage {
	return storage.New(metadb.NewTest(t))
}

func TestElectionRoundTrip(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	e := &types.Election{ID: "e1", Title: "Board Election", Status: types.StatusDraft, ThresholdT: 2, TotalTrusteesN: 3}
	c.Assert(s.SetElection(e), qt.IsNil)

	got, err := s.Election("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "Board Election")

	all, err := s.ListElections()
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 1)
}

func TestCodeEntryUniquePerVoter(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	entry := &types.CodeEntry{ID: "ce1", ElectionID: "e1", VoterID: "v1", MainCode: "ABC123"}
	c.Assert(s.CreateCodeEntry(entry), qt.IsNil)

	dup := &types.CodeEntry{ID: "ce2", ElectionID: "e1", VoterID: "v1", MainCode: "DEF456"}
	err := s.CreateCodeEntry(dup)
	c.Assert(err, qt.Equals, storage.ErrKeyAlreadyExists)

	sameCode := &types.CodeEntry{ID: "ce3", ElectionID: "e1", VoterID: "v2", MainCode: "ABC123"}
	err = s.CreateCodeEntry(sameCode)
	c.Assert(err, qt.Equals, storage.ErrKeyAlreadyExists)

	found, err := s.CodeEntryByMainCode("e1", "ABC123")
	c.Assert(err, qt.IsNil)
	c.Assert(found.ID, qt.Equals, "ce1")
}

func TestMainCodeCanOnlyBeUsedOnce(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	entry := &types.CodeEntry{ID: "ce1", ElectionID: "e1", VoterID: "v1", MainCode: "ABC123"}
	c.Assert(s.CreateCodeEntry(entry), qt.IsNil)

	c.Assert(s.MarkMainCodeUsed("ce1"), qt.IsNil)
	err := s.MarkMainCodeUsed("ce1")
	c.Assert(err, qt.ErrorMatches, ".*already used.*")
}

func TestCastBallotSpendsTokenAtomically(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	tok := &types.AnonymousToken{ID: "tok1", ElectionID: "e1", TokenHash: "hash1"}
	c.Assert(s.CreateToken(tok), qt.IsNil)

	ballot := &types.Ballot{ID: "b1", ElectionID: "e1", TokenHash: "hash1"}
	c.Assert(s.CastBallot(ballot, "tok1"), qt.IsNil)

	// Second cast attempt with the same token must fail and must not
	// create a second ballot record.
	ballot2 := &types.Ballot{ID: "b2", ElectionID: "e1", TokenHash: "hash1"}
	err := s.CastBallot(ballot2, "tok1")
	c.Assert(err, qt.ErrorMatches, ".*already used.*")

	ballots, err := s.ListBallots("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(ballots, qt.HasLen, 1)
}

func TestCastBallotRejectsDuplicateHash(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	tok1 := &types.AnonymousToken{ID: "tok1", ElectionID: "e1", TokenHash: "hash1"}
	c.Assert(s.CreateToken(tok1), qt.IsNil)
	tok2 := &types.AnonymousToken{ID: "tok2", ElectionID: "e1", TokenHash: "hash2"}
	c.Assert(s.CreateToken(tok2), qt.IsNil)

	ballot := &types.Ballot{ID: "b1", ElectionID: "e1", Hash: "samehash", TokenHash: "hash1"}
	c.Assert(s.CastBallot(ballot, "tok1"), qt.IsNil)

	dup := &types.Ballot{ID: "b2", ElectionID: "e1", Hash: "samehash", TokenHash: "hash2"}
	err := s.CastBallot(dup, "tok2")
	c.Assert(err, qt.Equals, storage.ErrDuplicateBallot)

	// The second token must remain unspent since its cast was rejected.
	tok, err := s.TokenByHash("hash2")
	c.Assert(err, qt.IsNil)
	c.Assert(tok.IsUsed, qt.IsFalse)
}

func TestBulletinChainSequenceAndHashLinkage(t *testing.T) {
	c := qt.New(t)
	s := newTestStorage(t)

	hashFn := func(previousHash string, sequence int64) (string, error) {
		return previousHash + "-h" + string(rune('0'+sequence)), nil
	}

	first, err := s.AppendBulletinEntry(&types.BulletinEntry{ElectionID: "e1", EntryType: types.EntryElectionCreated}, hashFn)
	c.Assert(err, qt.IsNil)
	c.Assert(first.Sequence, qt.Equals, int64(1))
	c.Assert(first.PreviousHash, qt.Equals, "")

	second, err := s.AppendBulletinEntry(&types.BulletinEntry{ElectionID: "e1", EntryType: types.EntryBallotCast}, hashFn)
	c.Assert(err, qt.IsNil)
	c.Assert(second.Sequence, qt.Equals, int64(2))
	c.Assert(second.PreviousHash, qt.Equals, first.EntryHash)

	all, err := s.ListBulletinEntries("e1")
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 2)
	c.Assert(all[0].Sequence, qt.Equals, int64(1))
	c.Assert(all[1].Sequence, qt.Equals, int64(2))
}
