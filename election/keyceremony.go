package election

import (
	"math/big"

	"github.com/thresholdvote/core/bulletin"
	"github.com/thresholdvote/core/crypto/ecies"
	"github.com/thresholdvote/core/crypto/shamir"
	"github.com/thresholdvote/core/storage"
	"github.com/thresholdvote/core/types"
)

const safePrimeMinBits = 256

// KeyCeremony generates the election keypair and splits its private
// scalar among the election's trustees (§4.1).
type KeyCeremony struct {
	store *storage.Storage
	chain *bulletin.Chain
}

// NewKeyCeremony constructs a KeyCeremony over the given storage and
// bulletin chain.
func NewKeyCeremony(store *storage.Storage, chain *bulletin.Chain) *KeyCeremony {
	return &KeyCeremony{store: store, chain: chain}
}

// Generate runs the key ceremony for electionID: it samples a fresh
// X25519 keypair, splits the private scalar into N Shamir shares with
// threshold t, and persists the public key and share packages. The raw
// private scalar is never returned and never persisted.
func (k *KeyCeremony) Generate(electionID string) (types.HexBytes, error) {
	e, err := k.store.Election(electionID)
	if err != nil {
		return nil, err
	}
	if len(e.PublicKey) != 0 {
		return nil, ErrAlreadyCeremonied()
	}

	slots, err := k.store.ListTrusteeSlots(electionID)
	if err != nil {
		return nil, err
	}
	if len(slots) < e.TotalTrusteesN {
		return nil, ErrInsufficientTrustees(len(slots), e.TotalTrusteesN)
	}

	prime := shamir.SafePrime()
	if prime.BitLen() <= safePrimeMinBits {
		return nil, ErrPrimeTooSmall()
	}

	privateScalar, publicKey, err := ecies.GenerateKeypair()
	if err != nil {
		return nil, newErr(KindCrypto, "KeyGenerationFailed", "%v", err)
	}

	secret := new(big.Int).SetBytes(privateScalar[:])
	shares, err := shamir.GenerateShares(secret, e.ThresholdT, e.TotalTrusteesN, prime)
	if err != nil {
		return nil, newErr(KindValidation, "InvalidThreshold", "%v", err)
	}
	packages := shamir.BuildSharePackages(shares, privateScalar[:], e.ThresholdT, e.TotalTrusteesN, prime, "x25519")

	// privateScalar is a local array value; once this function returns
	// without retaining a reference to it, it becomes unreachable and is
	// eligible for collection. It is never written to storage or logs.
	for i := range privateScalar {
		privateScalar[i] = 0
	}

	assigned := slots[:e.TotalTrusteesN]
	for i, slot := range assigned {
		slot.Share = &packages[i]
	}

	e.PublicKey = types.HexBytes(publicKey[:])
	if err := k.store.CommitKeyCeremony(assigned, e); err != nil {
		return nil, err
	}

	if k.chain != nil {
		_, _ = k.chain.Append(electionID, types.EntryKeyGenerated, map[string]interface{}{
			"public_key":   e.PublicKey.String(),
			"threshold":    float64(e.ThresholdT),
			"participants": float64(e.TotalTrusteesN),
			"action":       "Election public key generated",
		})
	}

	return e.PublicKey, nil
}
