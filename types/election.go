package types

import "time"

// Election is the top-level entity of §3. Its PublicKey field is written
// exactly once, by the key ceremony, and is immutable thereafter.
type Election struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	StartTime      time.Time      `json:"startTime"`
	EndTime        time.Time      `json:"endTime"`
	Status         ElectionStatus `json:"status"`
	ThresholdT     int            `json:"thresholdT"`
	TotalTrusteesN int            `json:"totalTrusteesN"`
	PublicKey      HexBytes       `json:"publicKey,omitempty"`
}

// Candidate is frozen once the first ballot is cast for its election.
type Candidate struct {
	ID           string `json:"id"`
	ElectionID   string `json:"electionId"`
	DisplayOrder int    `json:"displayOrder"`
	Label        string `json:"label"`
}
