// Package blindrsa implements the RSA blind signature protocol used by
// the blind issuer to hand out anonymous voting tokens without ever
// seeing the token value it is signing (§4.3). Transliterated directly
// from token-service/app/utils/blind_signature.py.
package blindrsa

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"
)

const KeySize = 2048

// GenerateKeypair produces a fresh RSA-2048 keypair (e=65537) for the
// blind issuer.
func GenerateKeypair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, KeySize)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return key, nil
}

// ExportPrivateKeyPEM encodes a private key as PKCS#8 PEM, the issuer's
// on-disk persistence format.
func ExportPrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ImportPrivateKeyPEM loads a private key previously written by
// ExportPrivateKeyPEM.
func ImportPrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PEM block does not contain an RSA private key")
	}
	return rsaKey, nil
}

func messageHashInt(message []byte) *big.Int {
	sum := sha256.Sum256(message)
	return new(big.Int).SetBytes(sum[:])
}

// BlindMessage hashes message and blinds it against the issuer's public
// key, returning the blinded value to submit for signing along with the
// blinding factor the caller must keep to unblind the signature later.
// m' = hash(m) * r^e mod n
func BlindMessage(message []byte, pub *rsa.PublicKey) (blinded []byte, blindingFactor *big.Int, err error) {
	n := pub.N
	e := big.NewInt(int64(pub.E))

	r, err := rand.Int(rand.Reader, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return nil, nil, fmt.Errorf("generate blinding factor: %w", err)
	}
	r.Add(r, big.NewInt(1)) // r in [1, n-1]

	hashInt := messageHashInt(message)
	rE := new(big.Int).Exp(r, e, n)
	blindedInt := new(big.Int).Mul(hashInt, rE)
	blindedInt.Mod(blindedInt, n)

	return blindedInt.Bytes(), r, nil
}

// BlindSign signs a blinded value with the issuer's private key. The
// issuer never learns the original message: s' = m'^d mod n.
func BlindSign(blindedMessage []byte, priv *rsa.PrivateKey) ([]byte, error) {
	blindedInt := new(big.Int).SetBytes(blindedMessage)
	n := priv.N
	d := priv.D

	sigInt := new(big.Int).Exp(blindedInt, d, n)
	return sigInt.Bytes(), nil
}

// UnblindSignature removes the blinding factor from a blind-signed value:
// s = s' * r^-1 mod n.
func UnblindSignature(blindSignature []byte, blindingFactor *big.Int, pub *rsa.PublicKey) ([]byte, error) {
	n := pub.N
	sigInt := new(big.Int).SetBytes(blindSignature)

	rInv := new(big.Int).ModInverse(blindingFactor, n)
	if rInv == nil {
		return nil, fmt.Errorf("blinding factor has no modular inverse mod n")
	}

	unblindedInt := new(big.Int).Mul(sigInt, rInv)
	unblindedInt.Mod(unblindedInt, n)
	return unblindedInt.Bytes(), nil
}

// VerifySignature checks an unblinded signature against the original
// message and the issuer's public key: hash(m) == s^e mod n.
func VerifySignature(message, signature []byte, pub *rsa.PublicKey) bool {
	hashInt := messageHashInt(message)
	sigInt := new(big.Int).SetBytes(signature)
	verifiedInt := new(big.Int).Exp(sigInt, big.NewInt(int64(pub.E)), pub.N)
	return verifiedInt.Cmp(hashInt) == 0
}
