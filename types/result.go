package types

import "time"

// ElectionResult is one candidate's tallied vote count, published once
// ThresholdTally combines enough trustee shares (§4.5).
type ElectionResult struct {
	ElectionID  string    `json:"electionId"`
	CandidateID string    `json:"candidateId"`
	VoteCount   int       `json:"voteCount"`
	TalliedAt   time.Time `json:"talliedAt"`
	Verified    bool      `json:"verified"`
}
