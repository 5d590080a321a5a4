package wallet

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ed25519Factory treats key material as an ed25519 seed. Both keys are
// base58 encoded: the 64-byte secret key and the 32-byte public key.
type ed25519Factory struct {
	chain Chain
}

func (f ed25519Factory) Chain() Chain { return f.chain }

func (f ed25519Factory) DeriveKeypair(material []byte) (Keypair, error) {
	if len(material) != ed25519.SeedSize {
		return Keypair{}, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(material))
	}
	priv := ed25519.NewKeyFromSeed(material)
	pub := priv.Public().(ed25519.PublicKey)
	return Keypair{Public: []byte(pub), Private: []byte(priv)}, nil
}

func (f ed25519Factory) EncodePublicKey(kp Keypair) string {
	return solana.PublicKeyFromBytes(kp.Public).String()
}

func (f ed25519Factory) EncodePrivateKey(kp Keypair) string {
	return solana.PrivateKey(kp.Private).String()
}

func (f ed25519Factory) ValidateKeys(publicKey, privateKey string) error {
	pub, err := solana.PublicKeyFromBase58(publicKey)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	secret, err := base58.Decode(privateKey)
	if err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	defer zero(secret)
	if len(secret) != ed25519.PrivateKeySize {
		return fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(secret))
	}

	// Recompute the public half from the seed half; the stored trailing 32
	// bytes are not trusted.
	derived := ed25519.NewKeyFromSeed(secret[:ed25519.SeedSize]).Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, pub[:]) || !bytes.Equal(secret[ed25519.SeedSize:], pub[:]) {
		return fmt.Errorf("public key does not match private key")
	}
	return nil
}
