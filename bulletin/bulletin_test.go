package bulletin_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/storage/db/metadb"
	"github.com/thresholdvote/core/types"
)

func TestAppendAssignsSequenceAndLinksHashes(t *testing.T) {
	c := qt.New(t)
	store := storage.New(metadb.NewTest(t))
	chain := bulletin.New(store)

	first, err := chain.Append("e1", types.EntryElectionCreated, map[string]interface{}{"a": float64(1)})
	c.Assert(err, qt.IsNil)
	c.Assert(first.Sequence, qt.Equals, int64(1))
	c.Assert(first.PreviousHash, qt.Equals, "")

	second, err := chain.Append("e1", types.EntryBallotCast, map[string]interface{}{"b": float64(2)})
	c.Assert(err, qt.IsNil)
	c.Assert(second.Sequence, qt.Equals, int64(2))
	c.Assert(second.PreviousHash, qt.Equals, first.EntryHash)
}

func TestVerifyEmptyChainIsValid(t *testing.T) {
	c := qt.New(t)
	store := storage.New(metadb.NewTest(t))
	chain := bulletin.New(store)

	result, err := chain.Verify("never-appended-to")
	c.Assert(err, qt.IsNil)
	c.Assert(result.Valid, qt.IsTrue)
	c.Assert(result.TotalEntries, qt.Equals, 0)
}

func TestMemoryClientRecordsPosts(t *testing.T) {
	c := qt.New(t)
	client := &bulletin.MemoryClient{}
	err := client.Post(nil, "e1", types.EntryBallotCast, map[string]interface{}{"ballot_hash": "abc"})
	c.Assert(err, qt.IsNil)
	c.Assert(client.Posted, qt.HasLen, 1)
	c.Assert(client.Posted[0].EntryType, qt.Equals, types.EntryBallotCast)
}

func TestAppendRelaysToConfiguredClient(t *testing.T) {
	c := qt.New(t)
	store := storage.New(metadb.NewTest(t))
	client := &bulletin.MemoryClient{}
	chain := bulletin.NewWithClient(store, client)

	_, err := chain.Append("e1", types.EntryElectionCreated, map[string]interface{}{"a": float64(1)})
	c.Assert(err, qt.IsNil)
	c.Assert(client.Posted, qt.HasLen, 1)
	c.Assert(client.Posted[0].ElectionID, qt.Equals, "e1")
	c.Assert(client.Posted[0].EntryType, qt.Equals, types.EntryElectionCreated)
}
