package wallet

import "fmt"

// Keypair holds raw key bytes produced by a KeyFactory. The layout of each
// field is chain specific.
type Keypair struct {
	Public  []byte
	Private []byte
}

// Zero clears the private half of the keypair.
func (kp *Keypair) Zero() {
	zero(kp.Private)
}

// KeyFactory builds and encodes keys for one chain.
type KeyFactory interface {
	// Chain returns the chain this factory serves.
	Chain() Chain

	// DeriveKeypair builds a keypair from 32 bytes of derived key material.
	DeriveKeypair(material []byte) (Keypair, error)

	// EncodePublicKey returns the chain's public identifier for kp.
	EncodePublicKey(kp Keypair) string

	// EncodePrivateKey returns the chain's textual private key for kp.
	EncodePrivateKey(kp Keypair) string

	// ValidateKeys checks that an encoded pair parses and that the public
	// identifier belongs to the private key.
	ValidateKeys(publicKey, privateKey string) error
}

// FactoryFor returns the key factory bound to chain.
func FactoryFor(chain Chain) (KeyFactory, error) {
	switch chain.Curve() {
	case CurveEd25519:
		return ed25519Factory{chain: chain}, nil
	case CurveSecp256k1:
		return secp256k1Factory{chain: chain}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
}
