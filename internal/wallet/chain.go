package wallet

import (
	"fmt"
	"strconv"
	"strings"
)

// Chain selects the coin type, and through it the key factory, used for
// derivation. Values are the SLIP-44 coin types so that a chain round-trips
// through its persisted selector string unchanged.
type Chain uint32

// Supported chains.
const (
	Ethereum Chain = 60
	Solana   Chain = 501
)

// Curve identifies the signature curve a chain's keys live on.
type Curve int

const (
	CurveUnknown Curve = iota
	CurveEd25519
	CurveSecp256k1
)

func (c Curve) String() string {
	switch c {
	case CurveEd25519:
		return "ed25519"
	case CurveSecp256k1:
		return "secp256k1"
	default:
		return "unknown"
	}
}

// SupportedChains lists every chain with a key factory, in display order.
func SupportedChains() []Chain {
	return []Chain{Solana, Ethereum}
}

// CoinType returns the SLIP-44 coin type (unhardened).
func (c Chain) CoinType() uint32 {
	return uint32(c)
}

// Selector returns the persisted form of the chain: its decimal coin type.
func (c Chain) Selector() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Curve returns the curve used by the chain's keys.
func (c Chain) Curve() Curve {
	switch c {
	case Solana:
		return CurveEd25519
	case Ethereum:
		return CurveSecp256k1
	default:
		return CurveUnknown
	}
}

// Supported reports whether a key factory exists for the chain.
func (c Chain) Supported() bool {
	return c.Curve() != CurveUnknown
}

// String returns the human-readable chain name.
func (c Chain) String() string {
	switch c {
	case Solana:
		return "Solana"
	case Ethereum:
		return "Ethereum"
	default:
		return "coin-" + c.Selector()
	}
}

// ParseChain parses a chain name or decimal coin type. Unknown numeric coin
// types parse successfully; whether a factory exists is checked at
// derivation time (see Chain.Supported).
func ParseChain(s string) (Chain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solana", "sol", "ed25519-chain", "ed25519":
		return Solana, nil
	case "ethereum", "eth", "secp256k1-chain", "secp256k1":
		return Ethereum, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedChain, s)
	}
	return Chain(n), nil
}
