// Package shamir implements Shamir's secret sharing over the fixed
// 2048-bit safe prime field, used by KeyCeremony to split the election's
// X25519 private scalar among trustees (§4.1). Transliterated from
// threshold_crypto.py's ThresholdCrypto, generalized to operate on an
// arbitrary secret rather than an RSA private exponent.
package shamir

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/thresholdvote/core/types"
)

// Share is a single (x, f(x)) point on the sharing polynomial.
type Share struct {
	X *big.Int
	Y *big.Int
}

// GenerateShares splits secret into totalShares points on a random
// degree-(threshold-1) polynomial over prime, with f(0) = secret.
func GenerateShares(secret *big.Int, threshold, totalShares int, prime *big.Int) ([]Share, error) {
	if threshold > totalShares {
		return nil, fmt.Errorf("threshold %d cannot exceed total shares %d", threshold, totalShares)
	}
	if threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d", threshold)
	}

	coefficients, err := generateCoefficients(secret, threshold, prime)
	if err != nil {
		return nil, err
	}

	shares := make([]Share, 0, totalShares)
	for x := 1; x <= totalShares; x++ {
		xBig := big.NewInt(int64(x))
		y := evaluatePolynomial(coefficients, xBig, prime)
		shares = append(shares, Share{X: xBig, Y: y})
	}
	return shares, nil
}

func generateCoefficients(secret *big.Int, threshold int, prime *big.Int) ([]*big.Int, error) {
	coefficients := make([]*big.Int, threshold)
	coefficients[0] = new(big.Int).Mod(secret, prime)
	for i := 1; i < threshold; i++ {
		c, err := rand.Int(rand.Reader, prime)
		if err != nil {
			return nil, fmt.Errorf("generate coefficient: %w", err)
		}
		coefficients[i] = c
	}
	return coefficients, nil
}

// evaluatePolynomial computes f(x) = sum(coefficients[i] * x^i) mod prime.
func evaluatePolynomial(coefficients []*big.Int, x, prime *big.Int) *big.Int {
	result := big.NewInt(0)
	xPow := big.NewInt(1)
	tmp := new(big.Int)
	for _, coeff := range coefficients {
		tmp.Mul(coeff, xPow)
		result.Add(result, tmp)
		result.Mod(result, prime)
		xPow.Mul(xPow, x)
		xPow.Mod(xPow, prime)
	}
	return result
}

// Reconstruct recovers the secret f(0) from at least threshold shares via
// Lagrange interpolation.
func Reconstruct(shares []Share, prime *big.Int) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("need at least one share")
	}

	secret := big.NewInt(0)
	for i, si := range shares {
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			// numerator *= (0 - xj) mod prime
			negXj := new(big.Int).Neg(sj.X)
			numerator.Mul(numerator, negXj)
			numerator.Mod(numerator, prime)

			// denominator *= (xi - xj) mod prime
			diff := new(big.Int).Sub(si.X, sj.X)
			denominator.Mul(denominator, diff)
			denominator.Mod(denominator, prime)
		}

		denomInv := new(big.Int).ModInverse(denominator, prime)
		if denomInv == nil {
			return nil, fmt.Errorf("share set is degenerate: duplicate x coordinates")
		}

		lagrangeCoeff := new(big.Int).Mul(numerator, denomInv)
		lagrangeCoeff.Mod(lagrangeCoeff, prime)

		term := new(big.Int).Mul(si.Y, lagrangeCoeff)
		secret.Add(secret, term)
		secret.Mod(secret, prime)
	}
	return secret, nil
}

// BuildSharePackages wraps raw shares into the wire-level SharePackage
// format, including the per-share proof and the shared key ID, both
// computed exactly as the original split_election_key does.
func BuildSharePackages(shares []Share, secretBytes []byte, threshold, totalShares int, prime *big.Int, keyType string) []types.SharePackage {
	keyID := keyIDFor(secretBytes)
	packages := make([]types.SharePackage, 0, len(shares))
	for i, s := range shares {
		packages = append(packages, types.SharePackage{
			TrusteeIndex: i + 1,
			X:            s.X.String(),
			Y:            s.Y.String(),
			Prime:        prime.String(),
			Threshold:    threshold,
			TotalN:       totalShares,
			KeyType:      keyType,
			KeyID:        keyID,
			Proof:        proofFor(s.X, s.Y, prime, threshold),
		})
	}
	return packages
}

func keyIDFor(secretBytes []byte) string {
	sum := sha256.Sum256(secretBytes)
	return hex.EncodeToString(sum[:])[:16]
}

// proofFor computes the share proof hash, sha256(x||y||prime||threshold)
// over their decimal-string representations, matching the original's
// f"{x}{y}{prime}{threshold}" concatenation.
func proofFor(x, y, prime *big.Int, threshold int) string {
	data := fmt.Sprintf("%s%s%s%d", x.String(), y.String(), prime.String(), threshold)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// SharesFromPackages extracts the raw (x, y) points from a set of share
// packages, for use with Reconstruct.
func SharesFromPackages(packages []types.SharePackage) ([]Share, error) {
	shares := make([]Share, 0, len(packages))
	for _, pkg := range packages {
		x, ok := new(big.Int).SetString(pkg.X, 10)
		if !ok {
			return nil, fmt.Errorf("share package %d: invalid x coordinate %q", pkg.TrusteeIndex, pkg.X)
		}
		y, ok := new(big.Int).SetString(pkg.Y, 10)
		if !ok {
			return nil, fmt.Errorf("share package %d: invalid y coordinate %q", pkg.TrusteeIndex, pkg.Y)
		}
		shares = append(shares, Share{X: x, Y: y})
	}
	return shares, nil
}
