package wallet

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	slip10 "github.com/anyproto/go-slip10"
)

// KeyMaterialSize is the length of derived key material.
const KeyMaterialSize = 32

// Scheme selects the HD derivation algorithm applied to secp256k1 chains.
// ed25519 chains always use SLIP-0010, the only hardened scheme defined for
// that curve.
type Scheme string

const (
	// SchemeSLIP10 derives every chain with SLIP-0010 ed25519 rules. Other
	// browser-based HD tools do the same for secp256k1 paths, so this is the
	// default for compatibility.
	SchemeSLIP10 Scheme = "slip10"

	// SchemeBIP32 derives secp256k1 chains with BIP-32 over secp256k1.
	SchemeBIP32 Scheme = "bip32"
)

// ParseScheme parses a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeSLIP10, "":
		return SchemeSLIP10, nil
	case SchemeBIP32:
		return SchemeBIP32, nil
	default:
		return "", fmt.Errorf("unknown derivation scheme %q (want %s or %s)", s, SchemeSLIP10, SchemeBIP32)
	}
}

// Deriver turns a seed and a derivation path into raw key material.
type Deriver struct {
	secp256k1 Scheme
}

// NewDeriver creates a Deriver using scheme for secp256k1 chains.
func NewDeriver(secp256k1Scheme Scheme) *Deriver {
	if secp256k1Scheme == "" {
		secp256k1Scheme = SchemeSLIP10
	}
	return &Deriver{secp256k1: secp256k1Scheme}
}

// Scheme returns the scheme used for secp256k1 chains.
func (d *Deriver) Scheme() Scheme {
	return d.secp256k1
}

// DeriveKeyMaterial applies hardened derivation along path starting from
// the seed's master key and returns 32 bytes of key material. Identical
// (seed, path) pairs always produce identical output.
func (d *Deriver) DeriveKeyMaterial(seed []byte, path string) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	if p.Chain.Curve() == CurveSecp256k1 && d.secp256k1 == SchemeBIP32 {
		return deriveBIP32(seed, p)
	}
	return deriveSLIP10(seed, p)
}

func deriveSLIP10(seed []byte, p Path) ([]byte, error) {
	node, err := slip10.DeriveForPath(p.Hardened(), seed)
	if err != nil {
		return nil, fmt.Errorf("slip10 derive %s: %w", p, err)
	}
	_, privBytes := node.Keypair()
	priv := ed25519.PrivateKey(privBytes)
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("slip10 derive %s: unexpected key length %d", p, len(priv))
	}

	material := make([]byte, KeyMaterialSize)
	copy(material, priv.Seed())
	return material, nil
}

func deriveBIP32(seed []byte, p Path) ([]byte, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	key, err := master.DerivePath(p.Indices()...)
	if err != nil {
		return nil, fmt.Errorf("bip32 derive %s: %w", p, err)
	}
	raw := key.PrivateKeyBytes()
	if len(raw) != KeyMaterialSize {
		return nil, fmt.Errorf("bip32 derive %s: unexpected key length %d", p, len(raw))
	}

	material := make([]byte, KeyMaterialSize)
	copy(material, raw)
	return material, nil
}
