package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Klingon-tech/hdvault/pkg/crypto"
)

// secp256k1Factory treats key material as a secp256k1 scalar. The private
// key is lower-case hex and the public identifier is the EIP-55 checksummed
// address.
type secp256k1Factory struct {
	chain Chain
}

func (f secp256k1Factory) Chain() Chain { return f.chain }

func (f secp256k1Factory) DeriveKeypair(material []byte) (Keypair, error) {
	key, err := crypto.PrivateKeyFromBytes(material)
	if err != nil {
		return Keypair{}, err
	}
	kp := Keypair{Public: key.PublicKeyUncompressed(), Private: key.Serialize()}
	key.Zero()
	return kp, nil
}

func (f secp256k1Factory) EncodePublicKey(kp Keypair) string {
	addr, err := crypto.EthereumAddress(kp.Public)
	if err != nil {
		return ""
	}
	return addr
}

func (f secp256k1Factory) EncodePrivateKey(kp Keypair) string {
	return hex.EncodeToString(kp.Private)
}

func (f secp256k1Factory) ValidateKeys(publicKey, privateKey string) error {
	if privateKey != strings.ToLower(privateKey) {
		return fmt.Errorf("private key must be lower-case hex")
	}
	raw, err := hex.DecodeString(privateKey)
	if err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	defer zero(raw)
	key, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	defer key.Zero()

	if !crypto.IsEthereumAddress(publicKey) {
		return fmt.Errorf("public key %q is not a checksummed address", publicKey)
	}
	if key.EthereumAddress() != publicKey {
		return fmt.Errorf("public key does not match private key")
	}
	return nil
}
