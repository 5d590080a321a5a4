// Package crypto provides cryptographic primitives shared by the wallet
// derivation pipeline.
package crypto

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSize is the length of a BLAKE3-256 digest in bytes.
const HashSize = 32

// FingerprintSize is the number of digest bytes kept in a fingerprint.
const FingerprintSize = 4

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// Fingerprint returns a short hex identifier for secret material.
// It is safe to log: 32 bits of a BLAKE3 digest reveal nothing usable
// about the input.
func Fingerprint(secret []byte) string {
	h := Hash(secret)
	return hex.EncodeToString(h[:FingerprintSize])
}
