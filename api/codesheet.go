package api

import "net/http"

// generateBulkCodeSheet handles POST /code-sheet/generate-bulk.
func (a *API) generateBulkCodeSheet(w http.ResponseWriter, r *http.Request) {
	var req GenerateBulkRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	entries, err := a.codeSheet.GenerateBulk(req.ElectionID, req.VoterIDs)
	if err != nil {
		writeErr(w, err)
		return
	}

	codes := make([]CodeEntryView, 0, len(entries))
	for _, entry := range entries {
		codes = append(codes, CodeEntryView{
			VoterID:        entry.VoterID,
			MainCode:       entry.MainCode,
			CandidateCodes: entry.CandidateCode,
		})
	}

	httpWriteJSON(w, GenerateBulkResponse{
		TotalVoters:    len(req.VoterIDs),
		CodesGenerated: len(entries),
		Codes:          codes,
	})
}
