package storage

import (
	"fmt"
	"time"

	coredb "github.com/thresholdvote/core/storage/db"
	"github.com/thresholdvote/core/types"
)

// CreateToken stores a freshly-issued anonymous token, enforcing that its
// token hash is globally unique (tokens are issued once per redeemed
// main code, never reissued for the same hash).
func (s *Storage) CreateToken(tok *types.AnonymousToken) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := createTokenTx(wTx, tok); err != nil {
		return err
	}
	return wTx.Commit()
}

func createTokenTx(wTx coredb.WriteTx, tok *types.AnonymousToken) error {
	if ok, err := exists(wTx, tokenHashIndexPx, []byte(tok.TokenHash)); err != nil {
		return err
	} else if ok {
		return ErrKeyAlreadyExists
	}

	if err := setArtifact(wTx, tokenPrefix, []byte(tok.ID), tok); err != nil {
		return err
	}
	return setArtifact(wTx, tokenHashIndexPx, []byte(tok.TokenHash), tok.ID)
}

// IssueToken atomically marks codeEntryID's main code as used and creates
// tok in a single transaction (§4.3 steps 1, 4, 5): either the code is
// consumed and the token exists, or neither happened. Returns
// ErrCodeAlreadyUsed if the code entry was already consumed.
func (s *Storage) IssueToken(codeEntryID string, tok *types.AnonymousToken) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()

	entry := &types.CodeEntry{}
	if err := getArtifact(wTx, codeEntryPrefix, []byte(codeEntryID), entry); err != nil {
		return err
	}
	if entry.MainCodeUsed {
		return ErrCodeAlreadyUsed
	}
	entry.MainCodeUsed = true
	entry.MainCodeUsedAt = time.Now().UTC()
	if err := setArtifact(wTx, codeEntryPrefix, []byte(codeEntryID), entry); err != nil {
		return err
	}

	if err := createTokenTx(wTx, tok); err != nil {
		return err
	}
	return wTx.Commit()
}

// TokenByHash resolves a token hash to its token record, the lookup
// BallotCast performs to verify an incoming ballot's credential.
func (s *Storage) TokenByHash(tokenHash string) (*types.AnonymousToken, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	var id string
	if err := getArtifact(rTx, tokenHashIndexPx, []byte(tokenHash), &id); err != nil {
		return nil, err
	}
	tok := &types.AnonymousToken{}
	if err := getArtifact(rTx, tokenPrefix, []byte(id), tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// MarkTokenUsed atomically checks the token has not been spent and marks
// it spent, the single-use enforcement BallotCast requires (§4.4).
func (s *Storage) MarkTokenUsed(id string) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := markTokenUsedTx(wTx, id); err != nil {
		return err
	}
	return wTx.Commit()
}

// markTokenUsedTx is the transaction-scoped core of MarkTokenUsed, reused
// by CastBallot so the used-check and the ballot write land atomically.
func markTokenUsedTx(wTx coredb.WriteTx, id string) error {
	tok := &types.AnonymousToken{}
	if err := getArtifact(wTx, tokenPrefix, []byte(id), tok); err != nil {
		return err
	}
	if tok.IsUsed {
		return fmt.Errorf("storage: token %s already used", id)
	}
	tok.IsUsed = true
	tok.UsedAt = time.Now().UTC()
	return setArtifact(wTx, tokenPrefix, []byte(id), tok)
}
