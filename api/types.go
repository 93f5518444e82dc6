package api

import "time"

// CreateElectionRequest is the body of POST /election/create.
type CreateElectionRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ThresholdT     int       `json:"threshold_t"`
	TotalTrusteesN int       `json:"total_trustees_n"`
}

// CreateElectionResponse is the success body of POST /election/create.
type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
}

// UpdateStatusRequest is the body of PUT /election/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse reports the transition actually applied.
type UpdateStatusResponse struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// CandidateCreateRequest is the body of POST /election/{id}/candidate.
type CandidateCreateRequest struct {
	Label        string `json:"label"`
	DisplayOrder int    `json:"display_order"`
}

// CandidateCreateResponse is the success body of POST /election/{id}/candidate.
type CandidateCreateResponse struct {
	CandidateID string `json:"candidate_id"`
}

// CandidateTally is one candidate's raw count, the shape /tally returns.
type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	VoteCount   int    `json:"vote_count"`
}

// TallyResponse is the success body of POST /election/{id}/tally.
type TallyResponse struct {
	TotalBallots      int              `json:"total_ballots"`
	TrusteesSubmitted int              `json:"trustees_submitted"`
	Threshold         int              `json:"threshold"`
	Results           []CandidateTally `json:"results"`
}

// CandidateResult is one candidate's published, display-ready result.
type CandidateResult struct {
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	VoteCount     int       `json:"vote_count"`
	Percentage    float64   `json:"percentage"`
	TalliedAt     time.Time `json:"tallied_at"`
	Verified      bool      `json:"verified"`
}

// ResultsResponse is the success body of GET /election/{id}/results.
type ResultsResponse struct {
	Results    []CandidateResult `json:"results"`
	TotalVotes int               `json:"total_votes"`
}

// StatsResponse is the success body of GET /election/{id}/stats.
type StatsResponse struct {
	CandidateCount    int    `json:"candidate_count"`
	BallotCount       int    `json:"ballot_count"`
	TrusteesSubmitted int    `json:"trustees_submitted"`
	Status            string `json:"status"`
}

// KeyCeremonyRequest is the body of POST /trustee/key-ceremony.
type KeyCeremonyRequest struct {
	ElectionID string `json:"election_id"`
}

// KeyCeremonyResponse is the success body of POST /trustee/key-ceremony.
type KeyCeremonyResponse struct {
	Threshold       int    `json:"threshold"`
	TotalTrustees   int    `json:"total_trustees"`
	PublicKey       string `json:"public_key"`
	TrusteesUpdated int    `json:"trustees_updated"`
}

// SubmitShareRequest is the body of POST /trustee/submit-decryption-share.
// DecryptionShares maps ballot_id to a hex-encoded partial decryption.
type SubmitShareRequest struct {
	ElectionID       string            `json:"election_id"`
	TrusteeID        string            `json:"trustee_id"`
	DecryptionShares map[string]string `json:"decryption_shares"`
}

// SubmitShareResponse is the success body of POST /trustee/submit-decryption-share.
type SubmitShareResponse struct {
	SharesCount int `json:"shares_count"`
}

// DecryptionStatusResponse is the success body of
// GET /trustee/{election_id}/decryption-status.
type DecryptionStatusResponse struct {
	Threshold         int  `json:"threshold"`
	TotalTrustees     int  `json:"total_trustees"`
	TrusteesSubmitted int  `json:"trustees_submitted"`
	CanDecrypt        bool `json:"can_decrypt"`
	TrusteesNeeded    int  `json:"trustees_needed"`
}

// BallotSummary is the redacted ballot view trustees use for cross-checks
// against the bulletin chain; the encrypted vote is never included.
type BallotSummary struct {
	BallotID string `json:"ballot_id"`
	Hash     string `json:"hash"`
}

// BallotsResponse is the success body of GET /trustee/{election_id}/ballots.
type BallotsResponse struct {
	Ballots []BallotSummary `json:"ballots"`
}

// GenerateBulkRequest is the body of POST /code-sheet/generate-bulk.
type GenerateBulkRequest struct {
	ElectionID string   `json:"election_id"`
	VoterIDs   []string `json:"voter_ids"`
}

// CodeEntryView is one voter's minted code sheet.
type CodeEntryView struct {
	VoterID        string            `json:"voter_id"`
	MainCode       string            `json:"main_code"`
	CandidateCodes map[string]string `json:"candidate_codes"`
}

// GenerateBulkResponse is the success body of POST /code-sheet/generate-bulk.
type GenerateBulkResponse struct {
	TotalVoters    int             `json:"total_voters"`
	CodesGenerated int             `json:"codes_generated"`
	Codes          []CodeEntryView `json:"codes"`
}

// RequestSignatureRequest is the body of POST /token/request-signature.
// BlindedTokenB64 is the client's blinded message, base64-encoded.
type RequestSignatureRequest struct {
	ElectionID      string `json:"election_id"`
	MainVotingCode  string `json:"main_voting_code"`
	BlindedTokenB64 string `json:"blinded_token_b64"`
}

// RequestSignatureResponse is the success body of POST /token/request-signature.
type RequestSignatureResponse struct {
	BlindedSignatureB64 string `json:"blinded_signature_b64"`
	TokenHashHex        string `json:"token_hash_hex"`
	PublicKeyPEM        string `json:"public_key_pem"`
}

// EncryptedVoteView is the wire shape of a sealed ballot, all fields
// standard base64-encoded per §6's cryptographic parameters.
type EncryptedVoteView struct {
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Ciphertext         string `json:"ciphertext"`
	Nonce              string `json:"nonce"`
	Tag                string `json:"tag"`
}

// SubmitVoteRequest is the body of POST /vote-submission/submit.
type SubmitVoteRequest struct {
	ElectionID        string                 `json:"election_id"`
	EncryptedVote     EncryptedVoteView      `json:"encrypted_vote"`
	Proof             map[string]interface{} `json:"proof"`
	TokenHashHex      string                 `json:"token_hash_hex"`
	TokenSignatureB64 string                 `json:"token_signature_b64"`
}

// SubmitVoteResponse is the success body of POST /vote-submission/submit.
type SubmitVoteResponse struct {
	BallotHash       string `json:"ballot_hash"`
	VerificationCode string `json:"verification_code"`
	VoteHash         string `json:"vote_hash"`
}

// BulletinAppendRequest is the body of POST /bulletin/append.
type BulletinAppendRequest struct {
	ElectionID string                 `json:"election_id"`
	EntryType  string                 `json:"entry_type"`
	EntryData  map[string]interface{} `json:"entry_data"`
}

// BulletinAppendResponse is the success body of POST /bulletin/append.
type BulletinAppendResponse struct {
	EntryID      string `json:"entry_id"`
	EntryHash    string `json:"entry_hash"`
	PreviousHash string `json:"previous_hash"`
}

// BulletinChainEntry is one link in the chain, as returned by
// GET /bulletin/{election_id}/chain.
type BulletinChainEntry struct {
	Seq  int64                  `json:"seq"`
	Type string                 `json:"type"`
	Hash string                 `json:"hash"`
	Prev string                 `json:"prev"`
	Data map[string]interface{} `json:"data"`
	Time time.Time              `json:"time"`
}

// BulletinVerifyResponse is the success body of GET /bulletin/{election_id}/verify.
type BulletinVerifyResponse struct {
	Valid        bool   `json:"valid"`
	Message      string `json:"message"`
	TotalEntries int    `json:"total_entries"`
}
