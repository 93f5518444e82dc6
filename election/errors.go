// Package election implements the six request-triggered operations of
// the e-voting core: KeyCeremony, CodeSheet, BlindIssuer, BallotCast,
// TrusteeShareSubmission and ThresholdTally. Domain failures are reported
// with the typed errors below, so the HTTP layer can translate them to
// the correct status/detail pair in one place (§7); storage errors are
// returned unchanged.
package election

import "fmt"

// Kind discriminates the error taxonomy of §7.
type Kind int

const (
	// KindValidation covers malformed input, missing fields, bad
	// base64, unknown elections.
	KindValidation Kind = iota
	// KindState covers wrong election status, already-ceremonied,
	// consumed codes, used tokens, duplicate ballots.
	KindState
	// KindQuorum covers fewer than t trustees having submitted shares.
	KindQuorum
	// KindCrypto covers signature verification and share reconstruction
	// failures.
	KindCrypto
	// KindTransient covers storage or bulletin-service unavailability.
	KindTransient
	// KindFatal covers configuration faults, such as a safe prime too
	// small for the key ceremony.
	KindFatal
)

// Error is the typed error every election operation returns on failure.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func newErr(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// KeyCeremony errors.
var (
	ErrAlreadyCeremonied = func() *Error {
		return newErr(KindState, "AlreadyCeremonied", "election already has a public key")
	}
	ErrInsufficientTrustees = func(have, want int) *Error {
		return newErr(KindValidation, "InsufficientTrustees", "have %d trustee slots, need %d", have, want)
	}
	ErrPrimeTooSmall = func() *Error {
		return newErr(KindFatal, "PrimeTooSmall", "configured safe prime is not larger than 2^256")
	}
)

// CodeSheet errors.
var (
	ErrNoCandidates = func() *Error {
		return newErr(KindValidation, "NoCandidates", "election has no candidates")
	}
	ErrNoEligibleVoters = func() *Error {
		return newErr(KindValidation, "NoEligibleVoters", "no eligible voters for this election")
	}
)

// BlindIssuer errors.
var (
	ErrInvalidCode = func() *Error {
		return newErr(KindValidation, "InvalidCode", "no code entry found for this election and main code")
	}
	ErrCodeConsumed = func() *Error {
		return newErr(KindState, "CodeConsumed", "main code has already been consumed")
	}
)

// BallotCast errors.
var (
	ErrUnknownToken = func() *Error {
		return newErr(KindValidation, "UnknownToken", "no anonymous token found for this token hash")
	}
	ErrTokenReplay = func() *Error {
		return newErr(KindState, "TokenReplay", "token has already been used to cast a ballot")
	}
	ErrInvalidTokenSignature = func() *Error {
		return newErr(KindCrypto, "InvalidTokenSignature", "token signature does not verify against the issuer public key")
	}
	ErrDuplicateBallot = func() *Error {
		return newErr(KindState, "DuplicateBallot", "an identical encrypted vote has already been cast in this election")
	}
)

// ThresholdTally errors.
var (
	ErrWrongStatus = func(have, want string) *Error {
		return newErr(KindState, "WrongStatus", "election status is %s, expected %s", have, want)
	}
	ErrNoBallots = func() *Error {
		return newErr(KindValidation, "NoBallots", "election has no cast ballots")
	}
	ErrInsufficientQuorum = func(have, want int) *Error {
		return newErr(KindQuorum, "InsufficientQuorum", "not enough decryption shares. Need %d, have %d", want, have)
	}
	ErrInsufficientShares = func(ballotID string, have, want int) *Error {
		return newErr(KindQuorum, "InsufficientShares", "ballot %s: not enough partial decryptions. Need %d, have %d", ballotID, want, have)
	}
)
