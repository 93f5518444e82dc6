package types

import "time"

// Bulletin entry types, grounded in the original bulletin_helper.py event
// catalogue. EntryData payload shapes are documented per constant below;
// they are stored as plain maps since the bulletin board only needs to
// hash and replay them, never to interpret their fields.
const (
	// EntryElectionCreated payload: election_title, threshold,
	// total_trustees, action.
	EntryElectionCreated = "ELECTION_CREATED"
	// EntryKeyGenerated payload: public_key (full hex), threshold,
	// participants, action.
	EntryKeyGenerated = "KEY_GENERATED"
	// EntryBallotCast payload: ballot_hash, verification_code, action.
	EntryBallotCast = "BALLOT_CAST"
	// EntryElectionClosed payload: total_votes, close_time, action.
	EntryElectionClosed = "ELECTION_CLOSED"
	// EntryTrusteeShare payload: trustee_index, ballot_count, action.
	EntryTrusteeShare = "TRUSTEE_SHARE"
	// EntryResultPublished payload: total_votes, winner (candidate label),
	// action.
	EntryResultPublished = "RESULT_PUBLISHED"
)

// BulletinEntry is one link in the hash-chained, append-only log (§4.6).
// EntryHash covers the canonical JSON encoding of EntryData concatenated
// with PreviousHash; Sequence is monotone and gap-free per election.
type BulletinEntry struct {
	ID                 string                 `json:"id"`
	ElectionID         string                 `json:"electionId"`
	Sequence           int64                  `json:"sequence"`
	EntryType          string                 `json:"entryType"`
	EntryData          map[string]interface{} `json:"entryData"`
	EntryHash          string                 `json:"entryHash"`
	PreviousHash       string                 `json:"previousHash"`
	AuthoritySignature HexBytes               `json:"authoritySignature"`
	CreatedAt          time.Time              `json:"createdAt"`
}
