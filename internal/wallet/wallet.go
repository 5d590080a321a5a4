package wallet

import (
	"fmt"

	"github.com/Klingon-tech/hdvault/internal/log"
)

// Wallet is a derived account as persisted. Field names match the stored
// JSON layout.
type Wallet struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
	Mnemonic   string `json:"mnemonic"`
	Path       string `json:"path"`
}

// Account returns the account index encoded in the wallet's path.
func (w Wallet) Account() (uint32, error) {
	p, err := ParsePath(w.Path)
	if err != nil {
		return 0, err
	}
	return p.Account, nil
}

// Builder runs the derivation pipeline: mnemonic -> seed -> path -> key
// material -> chain keypair -> encoded Wallet.
type Builder struct {
	deriver *Deriver
}

// NewBuilder creates a Builder that derives key material with d.
func NewBuilder(d *Deriver) *Builder {
	if d == nil {
		d = NewDeriver(SchemeSLIP10)
	}
	return &Builder{deriver: d}
}

// Deriver returns the deriver used by the builder.
func (b *Builder) Deriver() *Deriver {
	return b.deriver
}

// BuildWallet derives the wallet for account of chain from mnemonic.
// The chain is checked before any derivation work so an unsupported chain
// never costs a PBKDF2 round.
func (b *Builder) BuildWallet(chain Chain, mnemonic string, account uint32) (Wallet, error) {
	if _, err := FactoryFor(chain); err != nil {
		return Wallet{}, err
	}
	mnemonic = NormalizeMnemonic(mnemonic)
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return Wallet{}, err
	}
	defer zero(seed)

	path, err := DerivePath(chain, account)
	if err != nil {
		return Wallet{}, err
	}
	return b.BuildFromSeed(chain, seed, mnemonic, path)
}

// BuildFromSeed derives the wallet at path from an already computed seed.
// mnemonic is recorded verbatim in the result.
func (b *Builder) BuildFromSeed(chain Chain, seed []byte, mnemonic, path string) (Wallet, error) {
	defer log.Benchmark("build_wallet")()

	factory, err := FactoryFor(chain)
	if err != nil {
		return Wallet{}, err
	}
	p, err := ParsePath(path)
	if err != nil {
		return Wallet{}, err
	}
	if p.Chain != chain {
		return Wallet{}, fmt.Errorf("%w: path %s is for %s, not %s", ErrUnsupportedPath, path, p.Chain, chain)
	}

	material, err := b.deriver.DeriveKeyMaterial(seed, path)
	if err != nil {
		return Wallet{}, fmt.Errorf("derive %s: %w", path, err)
	}
	defer zero(material)

	kp, err := factory.DeriveKeypair(material)
	if err != nil {
		return Wallet{}, fmt.Errorf("build %s keypair: %w", chain, err)
	}
	defer kp.Zero()

	w := Wallet{
		PublicKey:  factory.EncodePublicKey(kp),
		PrivateKey: factory.EncodePrivateKey(kp),
		Mnemonic:   mnemonic,
		Path:       path,
	}
	if w.PublicKey == "" {
		return Wallet{}, fmt.Errorf("encode %s public key failed", chain)
	}

	log.Wallet.Debug().
		Str("chain", chain.String()).
		Str("path", path).
		Str("public_key", w.PublicKey).
		Msg("Derived wallet")
	return w, nil
}

// ValidateWallet checks a stored wallet record against its chain: the path
// must parse for that chain, the mnemonic must be valid, and the encoded keys
// must form a matching pair.
func ValidateWallet(chain Chain, w Wallet) error {
	factory, err := FactoryFor(chain)
	if err != nil {
		return err
	}
	p, err := ParsePath(w.Path)
	if err != nil {
		return err
	}
	if p.Chain != chain {
		return fmt.Errorf("%w: path %s is for %s, not %s", ErrUnsupportedPath, w.Path, p.Chain, chain)
	}
	if !ValidateMnemonic(w.Mnemonic) {
		return ErrInvalidMnemonic
	}
	if err := factory.ValidateKeys(w.PublicKey, w.PrivateKey); err != nil {
		return fmt.Errorf("%s keys: %w", chain, err)
	}
	return nil
}
