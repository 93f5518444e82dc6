package types

import (
	"encoding/json"
	"fmt"
)

// ElectionStatus is the four-variant election lifecycle state. Replacing
// the original's stringly-typed status column (Design Note "Stringly
// typed election status"), transitions are validated against a fixed
// table rather than left to callers.
type ElectionStatus uint8

const (
	// StatusDraft is the initial state, before voting opens; the key
	// ceremony may run while an election is still DRAFT.
	StatusDraft ElectionStatus = iota
	// StatusActive is the voting period. BallotCast itself does not check
	// the election status.
	StatusActive
	// StatusClosed ends the voting period; Tally runs only from this status.
	StatusClosed
	// StatusTallied has a published, verified result.
	StatusTallied
)

func (s ElectionStatus) String() string {
	switch s {
	case StatusDraft:
		return "DRAFT"
	case StatusActive:
		return "ACTIVE"
	case StatusClosed:
		return "CLOSED"
	case StatusTallied:
		return "TALLIED"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON implements json.Marshaler.
func (s ElectionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ElectionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseElectionStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseElectionStatus parses the wire representation of a status.
func ParseElectionStatus(s string) (ElectionStatus, error) {
	switch s {
	case "DRAFT":
		return StatusDraft, nil
	case "ACTIVE":
		return StatusActive, nil
	case "CLOSED":
		return StatusClosed, nil
	case "TALLIED":
		return StatusTallied, nil
	default:
		return 0, fmt.Errorf("unknown election status %q", s)
	}
}

// validTransitions is the explicit transition table (Design Note): every
// status change, including the administrative reset back to DRAFT, must
// be named here or it is rejected.
var validTransitions = map[ElectionStatus]map[ElectionStatus]bool{
	StatusDraft:   {StatusActive: true, StatusDraft: true},
	StatusActive:  {StatusClosed: true, StatusActive: true},
	StatusClosed:  {StatusTallied: true, StatusClosed: true, StatusDraft: true},
	StatusTallied: {StatusTallied: true, StatusDraft: true},
}

// CanTransition reports whether moving from 'from' to 'to' is a legal
// transition (§3: "transitions monotone except administrative reset").
func CanTransition(from, to ElectionStatus) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
