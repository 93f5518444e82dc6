package election

import (
	"time"

	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

// TrusteeShareSubmission records one trustee's partial decryptions ahead
// of ThresholdTally.Tally (§4.5's quorum precondition: "t trustee slots
// have shares_submitted").
type TrusteeShareSubmission struct {
	store *storage.Storage
	chain *bulletin.Chain
}

// NewTrusteeShareSubmission constructs a TrusteeShareSubmission.
func NewTrusteeShareSubmission(store *storage.Storage, chain *bulletin.Chain) *TrusteeShareSubmission {
	return &TrusteeShareSubmission{store: store, chain: chain}
}

// Submit stores trusteeSlotID's partial decryption for every ballot in
// partials (keyed by ballot ID) and marks the slot as having submitted.
// Calling Submit again for the same slot replaces its prior partials,
// letting a trustee correct a submission before the tally runs.
func (t *TrusteeShareSubmission) Submit(electionID, trusteeSlotID string, partials map[string]types.HexBytes) error {
	slot, err := t.store.TrusteeSlot(electionID, trusteeSlotID)
	if err != nil {
		return err
	}

	ballots, err := t.store.ListBallots(electionID)
	if err != nil {
		return err
	}
	if len(partials) < len(ballots) {
		return newErr(KindValidation, "IncompleteShareSubmission", "expected a partial decryption for all %d ballots, got %d", len(ballots), len(partials))
	}

	slot.Decryptions = partials
	slot.SharesSubmitted = true
	slot.SharesSubmittedAt = time.Now().UTC()
	if err := t.store.SetTrusteeSlot(slot); err != nil {
		return err
	}

	if t.chain != nil {
		_, _ = t.chain.Append(electionID, types.EntryTrusteeShare, map[string]interface{}{
			"trustee_index": float64(slot.TrusteeIndex),
			"ballot_count":  float64(len(partials)),
			"action":        "Trustee submitted decryption shares",
		})
	}
	return nil
}
