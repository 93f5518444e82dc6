package api

const (
	// ElectionIDParam is the URL parameter name for an election ID.
	ElectionIDParam = "electionId"

	// CreateElectionEndpoint creates a new election in DRAFT status.
	CreateElectionEndpoint = "/election/create"
	// ElectionStatusEndpoint transitions an election's lifecycle status.
	ElectionStatusEndpoint = "/election/{" + ElectionIDParam + "}/status"
	// ElectionTallyEndpoint triggers ThresholdTally for an election.
	ElectionTallyEndpoint = "/election/{" + ElectionIDParam + "}/tally"
	// ElectionResultsEndpoint returns a tallied election's published results.
	ElectionResultsEndpoint = "/election/{" + ElectionIDParam + "}/results"
	// ElectionStatsEndpoint returns dashboard counts for an election.
	ElectionStatsEndpoint = "/election/{" + ElectionIDParam + "}/stats"
	// ElectionCandidateEndpoint registers a candidate under an election.
	ElectionCandidateEndpoint = "/election/{" + ElectionIDParam + "}/candidate"

	// TrusteeKeyCeremonyEndpoint runs the key ceremony for an election.
	TrusteeKeyCeremonyEndpoint = "/trustee/key-ceremony"
	// TrusteeSubmitShareEndpoint records one trustee's decryption shares.
	TrusteeSubmitShareEndpoint = "/trustee/submit-decryption-share"
	// TrusteeDecryptionStatusEndpoint reports quorum progress for an election.
	TrusteeDecryptionStatusEndpoint = "/trustee/{" + ElectionIDParam + "}/decryption-status"
	// TrusteeBallotsEndpoint lists ballot id/hash pairs for trustee review.
	TrusteeBallotsEndpoint = "/trustee/{" + ElectionIDParam + "}/ballots"

	// CodeSheetGenerateBulkEndpoint mints voting codes for an election's voters.
	CodeSheetGenerateBulkEndpoint = "/code-sheet/generate-bulk"

	// TokenRequestSignatureEndpoint redeems a main code for a blind-signed token.
	TokenRequestSignatureEndpoint = "/token/request-signature"

	// VoteSubmissionEndpoint casts an encrypted ballot.
	VoteSubmissionEndpoint = "/vote-submission/submit"

	// BulletinAppendEndpoint appends a typed event to an election's chain.
	BulletinAppendEndpoint = "/bulletin/append"
	// BulletinChainEndpoint returns an election's full chain.
	BulletinChainEndpoint = "/bulletin/{" + ElectionIDParam + "}/chain"
	// BulletinVerifyEndpoint verifies an election's chain integrity.
	BulletinVerifyEndpoint = "/bulletin/{" + ElectionIDParam + "}/verify"

	// PingEndpoint is a liveness probe.
	PingEndpoint = "/ping"
)
