package election

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/thresholdvote/core/authority"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

// BlindIssuer exchanges a one-shot main code for a blind-signed anonymous
// token (§4.3). It never sees the unblinded token value.
type BlindIssuer struct {
	store       *storage.Storage
	auth        *authority.Authority
	allowDirect bool // fallback direct issuance, MVP-testing only
}

// NewBlindIssuer constructs a BlindIssuer. allowDirect enables the
// client-supplied-token-hash fallback path, which MUST be false in
// production builds.
func NewBlindIssuer(store *storage.Storage, auth *authority.Authority, allowDirect bool) *BlindIssuer {
	return &BlindIssuer{store: store, auth: auth, allowDirect: allowDirect}
}

// SignResult is the response to a successful blind-signing request.
type SignResult struct {
	BlindedSignature []byte
	TokenHash        string
	ServerPublicKeyN string // decimal n, sufficient for the client to reconstruct the PEM
	ServerPublicKeyE int
}

// Sign redeems mainCode for electionID against blindedMessage (the
// client's blinded token hash, big-endian bytes), atomically consuming
// the code and persisting the resulting AnonymousToken.
func (b *BlindIssuer) Sign(electionID, mainCode string, blindedMessage []byte) (*SignResult, error) {
	entry, err := b.store.CodeEntryByMainCode(electionID, mainCode)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrInvalidCode()
		}
		return nil, err
	}
	if entry.MainCodeUsed {
		return nil, ErrCodeConsumed()
	}

	blindedInt := new(big.Int).SetBytes(blindedMessage)
	sigInt := new(big.Int).Exp(blindedInt, b.auth.PrivateKey.D, b.auth.PrivateKey.N)
	blindSig := sigInt.Bytes()

	tokenHashBytes := sha256.Sum256(blindedMessage)
	tokenHash := hex.EncodeToString(tokenHashBytes[:])

	tok := &types.AnonymousToken{
		ID:               uuid.NewString(),
		ElectionID:       electionID,
		TokenHash:        tokenHash,
		BlindedSignature: blindSig,
		IsUsed:           false,
	}

	if err := b.store.IssueToken(entry.ID, tok); err != nil {
		if err == storage.ErrCodeAlreadyUsed {
			return nil, ErrCodeConsumed()
		}
		return nil, err
	}

	return &SignResult{
		BlindedSignature: blindSig,
		TokenHash:        tokenHash,
		ServerPublicKeyN: b.auth.PublicKey().N.String(),
		ServerPublicKeyE: b.auth.PublicKey().E,
	}, nil
}

// SignDirect is the MVP fallback: the client supplies the token hash
// directly and receives a placeholder signature. Disabled unless
// allowDirect was set at construction.
func (b *BlindIssuer) SignDirect(electionID, mainCode, tokenHash string) (*types.AnonymousToken, error) {
	if !b.allowDirect {
		return nil, newErr(KindValidation, "DirectIssuanceDisabled", "direct token issuance is disabled in this deployment")
	}

	entry, err := b.store.CodeEntryByMainCode(electionID, mainCode)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrInvalidCode()
		}
		return nil, err
	}
	if entry.MainCodeUsed {
		return nil, ErrCodeConsumed()
	}

	tok := &types.AnonymousToken{
		ID:               uuid.NewString(),
		ElectionID:       electionID,
		TokenHash:        tokenHash,
		BlindedSignature: []byte(fmt.Sprintf("placeholder-signature-%s", tokenHash)),
		IsUsed:           false,
	}
	if err := b.store.IssueToken(entry.ID, tok); err != nil {
		if err == storage.ErrCodeAlreadyUsed {
			return nil, ErrCodeConsumed()
		}
		return nil, err
	}
	return tok, nil
}
