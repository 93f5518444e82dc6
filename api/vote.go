package api

import (
	"encoding/base64"
	"net/http"

	"github.com/thresholdvote/core/crypto/canonical"
	"github.com/thresholdvote/core/types"
)

// submitVote handles POST /vote-submission/submit.
func (a *API) submitVote(w http.ResponseWriter, r *http.Request) {
	var req SubmitVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	vote, err := decodeEncryptedVote(req.EncryptedVote)
	if err != nil {
		ErrInvalidBase64.WithErr(err).Write(w)
		return
	}

	var proofBlob []byte
	if req.Proof != nil {
		proofBlob, err = canonical.Marshal(req.Proof)
		if err != nil {
			ErrMalformedBody.WithErr(err).Write(w)
			return
		}
	}

	sig, err := base64.StdEncoding.DecodeString(req.TokenSignatureB64)
	if err != nil {
		ErrInvalidBase64.WithErr(err).Write(w)
		return
	}

	result, err := a.ballotCast.Cast(req.ElectionID, vote, proofBlob, req.TokenHashHex, sig)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, SubmitVoteResponse{
		BallotHash:       result.BallotHash,
		VerificationCode: result.VerificationCode,
		VoteHash:         result.VoteHash,
	})
}

func decodeEncryptedVote(v EncryptedVoteView) (types.EncryptedVote, error) {
	var vote types.EncryptedVote
	var err error
	if vote.EphemeralPublicKey, err = base64.StdEncoding.DecodeString(v.EphemeralPublicKey); err != nil {
		return vote, err
	}
	if vote.Ciphertext, err = base64.StdEncoding.DecodeString(v.Ciphertext); err != nil {
		return vote, err
	}
	if vote.Nonce, err = base64.StdEncoding.DecodeString(v.Nonce); err != nil {
		return vote, err
	}
	if vote.Tag, err = base64.StdEncoding.DecodeString(v.Tag); err != nil {
		return vote, err
	}
	return vote, nil
}
