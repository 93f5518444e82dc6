// Package ecies implements the ballot-sealing scheme of §4.4: an ephemeral
// X25519 key agreement, HKDF-SHA256 key derivation, and AES-256-GCM
// authenticated encryption. It is a direct transliteration of the
// original ECIESEncryption helper (shared/crypto_utils.py), generalized
// from a fixed "encrypt one scalar" call into "seal one ballot payload".
package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/thresholdvote/core/types"
)

// derivationInfo is the HKDF info parameter, matching the original's
// exact byte string so ciphertexts produced by either implementation
// derive the same key from the same shared secret.
const derivationInfo = "ecies-encryption-key"

const (
	nonceSize = 12
	keySize   = 32
)

// GenerateKeypair produces a fresh X25519 private/public scalar pair for
// use as an election public key or ephemeral sender key.
func GenerateKeypair() (private, public [32]byte, err error) {
	if _, err = io.ReadFull(rand.Reader, private[:]); err != nil {
		return private, public, fmt.Errorf("generate private scalar: %w", err)
	}
	pub, err := curve25519.X25519(private[:], curve25519.Basepoint)
	if err != nil {
		return private, public, fmt.Errorf("derive public key: %w", err)
	}
	copy(public[:], pub)
	return private, public, nil
}

// Seal encrypts plaintext (the canonical-JSON-encoded vote selection) to
// recipientPublicKey, generating a fresh ephemeral key pair per call.
func Seal(recipientPublicKey []byte, plaintext []byte) (*types.EncryptedVote, error) {
	if len(recipientPublicKey) != 32 {
		return nil, fmt.Errorf("recipient public key must be 32 bytes, got %d", len(recipientPublicKey))
	}

	ephemeralPrivate, ephemeralPublic, err := GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral keypair: %w", err)
	}

	sharedSecret, err := curve25519.X25519(ephemeralPrivate[:], recipientPublicKey)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	key, err := deriveKey(sharedSecret)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	// Go's GCM interface appends the tag to the ciphertext; split them
	// back apart to match the wire format's separate ciphertext/tag
	// fields (the same layout the original aes_gcm_encrypt returns).
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext := sealed[:tagStart]
	tag := sealed[tagStart:]

	return &types.EncryptedVote{
		EphemeralPublicKey: types.HexBytes(ephemeralPublic[:]),
		Ciphertext:         types.HexBytes(ciphertext),
		Nonce:              types.HexBytes(nonce),
		Tag:                types.HexBytes(tag),
	}, nil
}

// Open decrypts a vote sealed with Seal, given the recipient's private
// scalar.
func Open(recipientPrivateKey []byte, vote *types.EncryptedVote) ([]byte, error) {
	if len(recipientPrivateKey) != 32 {
		return nil, fmt.Errorf("recipient private key must be 32 bytes, got %d", len(recipientPrivateKey))
	}
	if len(vote.EphemeralPublicKey) != 32 {
		return nil, fmt.Errorf("ephemeral public key must be 32 bytes, got %d", len(vote.EphemeralPublicKey))
	}

	sharedSecret, err := curve25519.X25519(recipientPrivateKey, vote.EphemeralPublicKey)
	if err != nil {
		return nil, fmt.Errorf("ecdh: %w", err)
	}

	key, err := deriveKey(sharedSecret)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	sealed := append(append([]byte{}, vote.Ciphertext...), vote.Tag...)
	plaintext, err := gcm.Open(nil, vote.Nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func deriveKey(sharedSecret []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, sharedSecret, nil, []byte(derivationInfo))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("hkdf derive: %w", err)
	}
	return key, nil
}
