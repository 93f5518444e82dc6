package types

import "time"

// AnonymousToken is issued once per (voter, election) by the blind issuer
// in exchange for a consumed main code (§4.3). TokenHash is the hex SHA-256
// of the blinded message the issuer signed, used for lookups without
// storing the token itself in plaintext anywhere a server operator could
// harvest it.
type AnonymousToken struct {
	ID               string    `json:"id"`
	ElectionID       string    `json:"electionId"`
	TokenHash        string    `json:"tokenHash"`
	BlindedSignature HexBytes  `json:"blindedSignature"`
	IsUsed           bool      `json:"isUsed"`
	UsedAt           time.Time `json:"usedAt,omitempty"`
}
