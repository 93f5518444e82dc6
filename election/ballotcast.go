package election

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thresholdvote/core/authority"
	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/crypto/canonical"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

// BallotCast validates and records a single encrypted vote (§4.4).
type BallotCast struct {
	store *storage.Storage
	auth  *authority.Authority
	chain *bulletin.Chain
}

// NewBallotCast constructs a BallotCast.
func NewBallotCast(store *storage.Storage, auth *authority.Authority, chain *bulletin.Chain) *BallotCast {
	return &BallotCast{store: store, auth: auth, chain: chain}
}

// CastResult is the response to a successful cast.
type CastResult struct {
	BallotHash       string
	VerificationCode string
	VoteHash         string
}

// Cast checks the presented token against the issuer's signature and, if
// valid and unused, stores the ballot. The checks run in the order §4.4
// names: unknown token, replay, bad signature, duplicate vote.
func (bc *BallotCast) Cast(electionID string, vote types.EncryptedVote, proofBlob []byte, tokenHash string, tokenSignature []byte) (*CastResult, error) {
	tok, err := bc.store.TokenByHash(tokenHash)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrUnknownToken()
		}
		return nil, err
	}
	if tok.IsUsed {
		return nil, ErrTokenReplay()
	}

	tokenHashBytes, err := hex.DecodeString(strings.TrimPrefix(tokenHash, "0x"))
	if err != nil {
		return nil, ErrInvalidTokenSignature()
	}

	// The unblinded signature must satisfy sig^e mod n == sha256(tokenHash),
	// matching the original's rsa.verify() which SHA-256-hashes its
	// message argument internally.
	pub := bc.auth.PublicKey()
	h := sha256.Sum256(tokenHashBytes)
	expected := new(big.Int).SetBytes(h[:])
	actual := new(big.Int).Exp(new(big.Int).SetBytes(tokenSignature), big.NewInt(int64(pub.E)), pub.N)
	if actual.Cmp(expected) != 0 {
		return nil, ErrInvalidTokenSignature()
	}

	ballotHash, err := hashVote(vote)
	if err != nil {
		return nil, err
	}

	// The proof blob is stored verbatim; no proof verifier runs on it.
	ballot := &types.Ballot{
		ID:               uuid.NewString(),
		ElectionID:       electionID,
		Vote:             vote,
		Hash:             ballotHash,
		VerificationCode: strings.ToUpper(ballotHash[:12]),
		ZKProof:          types.HexBytes(proofBlob),
		Signature:        types.HexBytes(tokenSignature),
		TokenHash:        tokenHash,
		CastAt:           time.Now().UTC(),
	}

	if err := bc.store.CastBallot(ballot, tok.ID); err != nil {
		if err == storage.ErrDuplicateBallot {
			return nil, ErrDuplicateBallot()
		}
		return nil, err
	}

	voteHash, err := hashCastEvent(electionID, ballotHash, tokenHash, ballot.CastAt)
	if err != nil {
		return nil, err
	}

	if bc.chain != nil {
		_, _ = bc.chain.Append(electionID, types.EntryBallotCast, map[string]interface{}{
			"ballot_hash":       ballotHash,
			"verification_code": ballot.VerificationCode,
			"action":            "Encrypted ballot cast",
		})
	}

	return &CastResult{
		BallotHash:       ballotHash,
		VerificationCode: ballot.VerificationCode,
		VoteHash:         voteHash,
	}, nil
}

func hashVote(vote types.EncryptedVote) (string, error) {
	canon, err := canonical.Marshal(vote)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func hashCastEvent(electionID, ballotHash, tokenHash string, castAt time.Time) (string, error) {
	canon, err := canonical.Marshal(map[string]interface{}{
		"election_id": electionID,
		"ballot_hash": ballotHash,
		"token_hash":  tokenHash,
		"timestamp":   castAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
