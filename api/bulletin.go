package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// appendBulletinEntry handles POST /bulletin/append.
func (a *API) appendBulletinEntry(w http.ResponseWriter, r *http.Request) {
	var req BulletinAppendRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	entry, err := a.chain.Append(req.ElectionID, req.EntryType, req.EntryData)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, BulletinAppendResponse{
		EntryID:      entry.ID,
		EntryHash:    entry.EntryHash,
		PreviousHash: entry.PreviousHash,
	})
}

// bulletinChain handles GET /bulletin/{election_id}/chain.
func (a *API) bulletinChain(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	entries, err := a.storage.ListBulletinEntries(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := make([]BulletinChainEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, BulletinChainEntry{
			Seq:  e.Sequence,
			Type: e.EntryType,
			Hash: e.EntryHash,
			Prev: e.PreviousHash,
			Data: e.EntryData,
			Time: e.CreatedAt,
		})
	}

	httpWriteJSON(w, out)
}

// bulletinVerify handles GET /bulletin/{election_id}/verify.
func (a *API) bulletinVerify(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	result, err := a.chain.Verify(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, BulletinVerifyResponse{
		Valid:        result.Valid,
		Message:      result.Message,
		TotalEntries: result.TotalEntries,
	})
}
