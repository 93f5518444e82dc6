package types

import "time"

// SharePackage is the per-trustee Shamir share, written once by the key
// ceremony (§4.1). Design Note "Big-integer modular arithmetic": X, Y and
// Prime are decimal-string encoded big integers, never floats.
type SharePackage struct {
	TrusteeIndex int    `json:"trusteeIndex"`
	X            string `json:"x"`
	Y            string `json:"y"`
	Prime        string `json:"prime"`
	Threshold    int    `json:"threshold"`
	TotalN       int    `json:"totalN"`
	KeyType      string `json:"keyType"`
	KeyID        string `json:"keyId"`
	Proof        string `json:"proof"`
}

// PartialDecryption is a single trustee's contribution for one ballot.
// Design Note "Partial decryption share format": a structured
// (trustee, ballot, bytes) triple, not a free-form string-keyed map.
type PartialDecryption struct {
	TrusteeIndex int      `json:"trusteeIndex"`
	BallotID     string   `json:"ballotId"`
	Partial      HexBytes `json:"partial"`
}

// TrusteeSlot is the natural person acting as trustee for one election.
type TrusteeSlot struct {
	ID                string        `json:"id"`
	ElectionID        string        `json:"electionId"`
	VoterID           string        `json:"voterId"`
	TrusteeIndex      int           `json:"trusteeIndex"`
	Share             *SharePackage `json:"share,omitempty"`
	SharesSubmitted   bool          `json:"sharesSubmitted"`
	SharesSubmittedAt time.Time     `json:"sharesSubmittedAt,omitempty"`
	// Decryptions maps ballot ID to this trustee's partial decryption for
	// that ballot; written once per ballot at tally time.
	Decryptions map[string]HexBytes `json:"decryptions,omitempty"`
}
