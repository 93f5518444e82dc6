package storage

import (
	"fmt"

	"github.com/thresholdvote/core/types"
)

func trusteeSlotKey(electionID, slotID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", electionID, slotID))
}

// SetTrusteeSlot creates or overwrites a trustee slot record.
func (s *Storage) SetTrusteeSlot(slot *types.TrusteeSlot) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	if err := setArtifact(wTx, trusteePrefix, trusteeSlotKey(slot.ElectionID, slot.ID), slot); err != nil {
		return err
	}
	return wTx.Commit()
}

// TrusteeSlot retrieves a single trustee slot.
func (s *Storage) TrusteeSlot(electionID, slotID string) (*types.TrusteeSlot, error) {
	slot := &types.TrusteeSlot{}
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	if err := getArtifact(rTx, trusteePrefix, trusteeSlotKey(electionID, slotID), slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ListTrusteeSlots returns every trustee slot for an election.
func (s *Storage) ListTrusteeSlots(electionID string) ([]*types.TrusteeSlot, error) {
	rTx := s.db.ReadTx()
	defer rTx.Discard()
	keys, err := listKeys(rTx, trusteePrefix, []byte(electionID+"/"))
	if err != nil {
		return nil, err
	}
	slots := make([]*types.TrusteeSlot, 0, len(keys))
	for _, key := range keys {
		slot := &types.TrusteeSlot{}
		if err := getArtifact(rTx, trusteePrefix, key, slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// CommitKeyCeremony persists every slot in slots and e in a single write
// transaction, the same atomic-combine idiom IssueToken/createTokenTx
// use for code-consumption + token-creation. Either every slot's share
// package lands together with the election's public key, or none of it
// does: a crash mid-ceremony can never leave some slots holding a share
// while PublicKey is still unset.
func (s *Storage) CommitKeyCeremony(slots []*types.TrusteeSlot, e *types.Election) error {
	wTx := s.db.WriteTx()
	defer wTx.Discard()
	for _, slot := range slots {
		if err := setArtifact(wTx, trusteePrefix, trusteeSlotKey(slot.ElectionID, slot.ID), slot); err != nil {
			return err
		}
	}
	if err := setArtifact(wTx, electionPrefix, []byte(e.ID), e); err != nil {
		return err
	}
	return wTx.Commit()
}
