package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// PrivateKeySize is the length of a secp256k1 private key scalar.
const PrivateKeySize = 32

// UncompressedPubKeySize is the length of an uncompressed public key
// (0x04 prefix followed by X and Y).
const UncompressedPubKeySize = 65

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
// The scalar must lie in [1, n-1]; values that the curve would silently
// reduce are rejected.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", PrivateKeySize, len(b))
	}
	if _, err := ethcrypto.ToECDSA(b); err != nil {
		return nil, fmt.Errorf("private key out of range: %w", err)
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// PublicKeyUncompressed returns the 65-byte uncompressed public key.
func (pk *PrivateKey) PublicKeyUncompressed() []byte {
	return pk.key.PubKey().SerializeUncompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Hex returns the private key scalar as lower-case hex without a 0x prefix.
func (pk *PrivateKey) Hex() string {
	return hex.EncodeToString(pk.key.Serialize())
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// EthereumAddress returns the EIP-55 checksummed address for this key.
func (pk *PrivateKey) EthereumAddress() string {
	addr, _ := EthereumAddress(pk.PublicKeyUncompressed())
	return addr
}

// EthereumAddress derives the EIP-55 checksummed address from an
// uncompressed public key: the last 20 bytes of keccak256(X || Y).
func EthereumAddress(uncompressed []byte) (string, error) {
	if len(uncompressed) != UncompressedPubKeySize || uncompressed[0] != 0x04 {
		return "", fmt.Errorf("public key must be %d-byte uncompressed, got %d bytes", UncompressedPubKeySize, len(uncompressed))
	}
	digest := ethcrypto.Keccak256(uncompressed[1:])
	return common.BytesToAddress(digest[12:]).Hex(), nil
}

// IsEthereumAddress reports whether s is a 0x-prefixed 20-byte hex address
// whose letter casing matches its EIP-55 checksum.
func IsEthereumAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	return common.HexToAddress(s).Hex() == s
}
