// Package authority holds the voting authority's long-lived RSA blind
// signing keypair. Design Note (§4.7, reworking
// token-service/app/utils/blind_signature.py's lazy module-level
// singleton): the keypair is always an explicit, constructed value
// threaded through the call stack, never a package-level global.
package authority

import (
	"crypto/rsa"
	"os"

	"github.com/thresholdvote/core/crypto/blindrsa"
	"github.com/thresholdvote/core/log"
)

// Authority wraps the blind-issuer's keypair.
type Authority struct {
	PrivateKey *rsa.PrivateKey
}

// Load reads the authority's private key from keyPath. If keyPath is
// empty and devMode is true, a fresh ephemeral keypair is generated and
// a WARN is logged, matching get_blind_signer's MVP fallback ("keys will
// be lost on restart - acceptable for MVP"). Outside dev mode, an empty
// keyPath is fatal: a production voting authority must not silently
// mint a new identity on every restart.
func Load(keyPath string, devMode bool) (*Authority, error) {
	if keyPath == "" {
		if !devMode {
			return nil, os.ErrNotExist
		}
		log.Warnw("no authority key path configured, generating ephemeral keypair",
			"devMode", devMode)
		key, err := blindrsa.GenerateKeypair()
		if err != nil {
			return nil, err
		}
		return &Authority{PrivateKey: key}, nil
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}
	key, err := blindrsa.ImportPrivateKeyPEM(data)
	if err != nil {
		return nil, err
	}
	return &Authority{PrivateKey: key}, nil
}

// Generate creates and persists a new keypair at keyPath, used by the
// one-time key-provisioning step before the service first starts in
// production.
func Generate(keyPath string) (*Authority, error) {
	key, err := blindrsa.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	pemBytes, err := blindrsa.ExportPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyPath, pemBytes, 0o600); err != nil {
		return nil, err
	}
	return &Authority{PrivateKey: key}, nil
}

// PublicKey returns the authority's RSA public key, published so any
// voter can verify their token's blind signature.
func (a *Authority) PublicKey() *rsa.PublicKey {
	return &a.PrivateKey.PublicKey
}
