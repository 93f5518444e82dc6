package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thresholdvote/core/types"
)

// createElection handles POST /election/create. The election is created
// DRAFT with its full complement of empty trustee slots already
// provisioned, satisfying KeyCeremony.Generate's precondition that an
// election have exactly total_trustees_n slots before the ceremony runs.
func (a *API) createElection(w http.ResponseWriter, r *http.Request) {
	var req CreateElectionRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.Title == "" {
		ErrMissingField.With("title").Write(w)
		return
	}
	if req.ThresholdT < 1 || req.TotalTrusteesN < req.ThresholdT {
		ErrMalformedBody.With("threshold_t must be >= 1 and <= total_trustees_n").Write(w)
		return
	}

	e := &types.Election{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         types.StatusDraft,
		ThresholdT:     req.ThresholdT,
		TotalTrusteesN: req.TotalTrusteesN,
	}
	if err := a.storage.SetElection(e); err != nil {
		writeErr(w, err)
		return
	}

	for i := 0; i < req.TotalTrusteesN; i++ {
		slot := &types.TrusteeSlot{
			ID:           uuid.NewString(),
			ElectionID:   e.ID,
			TrusteeIndex: i,
		}
		if err := a.storage.SetTrusteeSlot(slot); err != nil {
			writeErr(w, err)
			return
		}
	}

	if a.chain != nil {
		_, _ = a.chain.Append(e.ID, types.EntryElectionCreated, map[string]interface{}{
			"election_title": e.Title,
			"threshold":      float64(e.ThresholdT),
			"total_trustees": float64(e.TotalTrusteesN),
			"action":         "Election created",
		})
	}

	httpWriteJSON(w, CreateElectionResponse{ElectionID: e.ID})
}

// updateElectionStatus handles PUT /election/{id}/status.
func (a *API) updateElectionStatus(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}

	e, err := a.storage.Election(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}

	newStatus, err := types.ParseElectionStatus(req.Status)
	if err != nil {
		ErrInvalidStatus.WithErr(err).Write(w)
		return
	}
	if !types.CanTransition(e.Status, newStatus) {
		ErrInvalidTransition.Withf("%s -> %s", e.Status, newStatus).Write(w)
		return
	}

	old := e.Status.String()
	e.Status = newStatus
	if err := a.storage.SetElection(e); err != nil {
		writeErr(w, err)
		return
	}

	if newStatus == types.StatusClosed && a.chain != nil {
		total, _ := a.storage.CountBallots(electionID)
		_, _ = a.chain.Append(electionID, types.EntryElectionClosed, map[string]interface{}{
			"total_votes": float64(total),
			"close_time":  e.EndTime.Format("2006-01-02T15:04:05Z07:00"),
			"action":      "Election closed",
		})
	}

	httpWriteJSON(w, UpdateStatusResponse{Old: old, New: newStatus.String()})
}

// createCandidate handles POST /election/{id}/candidate. Candidates are
// frozen once the first ballot is cast: CodeSheet and ThresholdTally both
// rely on a stable candidate set.
func (a *API) createCandidate(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	var req CandidateCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.Label == "" {
		ErrMissingField.With("label").Write(w)
		return
	}

	if _, err := a.storage.Election(electionID); err != nil {
		writeErr(w, err)
		return
	}

	count, err := a.storage.CountBallots(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if count > 0 {
		ErrCandidatesFrozen.Write(w)
		return
	}

	c := &types.Candidate{
		ID:           uuid.NewString(),
		ElectionID:   electionID,
		DisplayOrder: req.DisplayOrder,
		Label:        req.Label,
	}
	if err := a.storage.SetCandidate(c); err != nil {
		writeErr(w, err)
		return
	}

	httpWriteJSON(w, CandidateCreateResponse{CandidateID: c.ID})
}

// tallyElection handles POST /election/{id}/tally.
func (a *API) tallyElection(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	if err := a.threshold.Tally(electionID); err != nil {
		writeErr(w, err)
		return
	}

	e, err := a.storage.Election(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	results, err := a.storage.ListElectionResults(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	totalBallots, err := a.storage.CountBallots(electionID)
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

	tallies := make([]CandidateTally, 0, len(results))
	for _, res := range results {
		tallies = append(tallies, CandidateTally{CandidateID: res.CandidateID, VoteCount: res.VoteCount})
	}

	httpWriteJSON(w, TallyResponse{
		TotalBallots:      totalBallots,
		TrusteesSubmitted: submitted,
		Threshold:         e.ThresholdT,
		Results:           tallies,
	})
}

// electionResults handles GET /election/{id}/results.
func (a *API) electionResults(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	e, err := a.storage.Election(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if e.Status != types.StatusTallied {
		ErrNotTallied.Write(w)
		return
	}

	results, err := a.storage.ListElectionResults(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	candidates, err := a.storage.ListCandidates(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	names := make(map[string]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.Label
	}

	totalVotes := 0
	for _, res := range results {
		totalVotes += res.VoteCount
	}

	out := make([]CandidateResult, 0, len(results))
	for _, res := range results {
		pct := 0.0
		if totalVotes > 0 {
			pct = float64(res.VoteCount) / float64(totalVotes) * 100
		}
		out = append(out, CandidateResult{
			CandidateID:   res.CandidateID,
			CandidateName: names[res.CandidateID],
			VoteCount:     res.VoteCount,
			Percentage:    pct,
			TalliedAt:     res.TalliedAt,
			Verified:      res.Verified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoteCount > out[j].VoteCount })

	httpWriteJSON(w, ResultsResponse{Results: out, TotalVotes: totalVotes})
}

// electionStats handles GET /election/{id}/stats.
func (a *API) electionStats(w http.ResponseWriter, r *http.Request) {
	electionID := chi.URLParam(r, ElectionIDParam)

	e, err := a.storage.Election(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	candidates, err := a.storage.ListCandidates(electionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	ballotCount, err := a.storage.CountBallots(electionID)
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

	httpWriteJSON(w, StatsResponse{
		CandidateCount:    len(candidates),
		BallotCount:       ballotCount,
		TrusteesSubmitted: submitted,
		Status:            e.Status.String(),
	})
}
