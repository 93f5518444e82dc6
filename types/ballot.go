package types

import "time"

// EncryptedVote is the wire format produced by ECIES sealing and consumed
// unchanged by BallotCast and the crypto/ecies package. All four fields
// marshal to JSON as hex via HexBytes, matching the rest of the module's
// byte-field convention; the HTTP API's EncryptedVoteView carries the
// same bytes base64-encoded.
type EncryptedVote struct {
	EphemeralPublicKey HexBytes `json:"ephemeralPublicKey"`
	Ciphertext         HexBytes `json:"ciphertext"`
	Nonce              HexBytes `json:"nonce"`
	Tag                HexBytes `json:"tag"`
}

// Ballot is a single cast vote. The plaintext candidate selection never
// appears on this struct or anywhere server-side; only the sealed vote,
// its hash, and the voter-facing verification code do.
type Ballot struct {
	ID               string        `json:"id"`
	ElectionID       string        `json:"electionId"`
	Vote             EncryptedVote `json:"vote"`
	Hash             string        `json:"hash"`
	VerificationCode string        `json:"verificationCode"`
	ZKProof          HexBytes      `json:"zkProof,omitempty"`
	Signature        HexBytes      `json:"signature"`
	TokenHash        string        `json:"tokenHash"`
	CastAt           time.Time     `json:"castAt"`
}
