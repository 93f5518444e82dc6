package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thresholdvote/core/types"
)

// trusteeKeyCeremony handles POST /trustee/key-ceremony.
func (a *API) trusteeKeyCeremony(w http.ResponseWriter, r *http.Request) {
	var req KeyCeremonyRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	pubKey, err := a.keyCeremony.Generate(req.ElectionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	e, err := a.storage.Election(req.ElectionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, KeyCeremonyResponse{
		Threshold:       e.ThresholdT,
		TotalTrustees:   e.TotalTrusteesN,
		PublicKey:       pubKey.String(),
		TrusteesUpdated: e.TotalTrusteesN,
	})
}

// trusteeSubmitShare handles POST /trustee/submit-decryption-share.
func (a *API) trusteeSubmitShare(w http.ResponseWriter, r *http.Request) {
	var req SubmitShareRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	partials := make(map[string]types.HexBytes, len(req.DecryptionShares))
	for ballotID, hexVal := range req.DecryptionShares {
		b, err := types.HexBytesFromString(hexVal)
		if err != nil {
			ErrInvalidBase64.WithErr(err).Write(w)
			return
		}
		partials[ballotID] = b
	}

	if err := a.shareSubmit.Submit(req.ElectionID, req.TrusteeID, partials); err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, SubmitShareResponse{SharesCount: len(partials)})
}

// trusteeDecryptionStatus handles GET /trustee/{election_id}/decryption-status.
func (a *API) trusteeDecryptionStatus(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	e, err := a.storage.Election(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	slots, err := a.storage.ListTrusteeSlots(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	submitted := 0
	for _, slot := range slots {
		if slot.SharesSubmitted {
			submitted++
		}
	}
	needed := e.ThresholdT - submitted
	if needed < 0 {
		needed = 0
	}

	httpWriteJSON(w, DecryptionStatusResponse{
		Threshold:         e.ThresholdT,
		TotalTrustees:     e.TotalTrusteesN,
		TrusteesSubmitted: submitted,
		CanDecrypt:        submitted >= e.ThresholdT,
		TrusteesNeeded:    needed,
	})
}

// trusteeBallots handles GET /trustee/{election_id}/ballots. It never
// returns the encrypted vote, only the id/hash pair trustees use to
// cross-check against the bulletin chain.
func (a *API) trusteeBallots(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	ballots, err := a.storage.ListBallots(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := make([]BallotSummary, 0, len(ballots))
	for _, b := range ballots {
		out = append(out, BallotSummary{BallotID: b.ID, Hash: b.Hash})
	}

	httpWriteJSON(w, BallotsResponse{Ballots: out})
}
