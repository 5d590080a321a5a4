package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/0'/account, every level hardened.
const (
	// PurposeBIP44 is the BIP-44 purpose field (unhardened value).
	PurposeBIP44 = 44

	// ChangeLevel is the fixed third path level.
	ChangeLevel = 0

	// MaxAccountIndex is the largest account that can be hardened.
	MaxAccountIndex = bip32.FirstHardenedChild - 1
)

// Path is a parsed derivation path.
type Path struct {
	Chain   Chain
	Account uint32
}

// DerivePath builds the derivation path string for an account of a chain:
// m/44'/{coinType}'/0'/{account}.
func DerivePath(chain Chain, account uint32) (string, error) {
	if !chain.Supported() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	if account > MaxAccountIndex {
		return "", fmt.Errorf("account index %d exceeds %d", account, uint32(MaxAccountIndex))
	}
	return Path{Chain: chain, Account: account}.String(), nil
}

// String renders the path in its stored form. The account level carries no
// apostrophe but is still derived hardened.
func (p Path) String() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d", PurposeBIP44, p.Chain.CoinType(), ChangeLevel, p.Account)
}

// Hardened renders the path with every level explicitly marked hardened.
func (p Path) Hardened() string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d'", PurposeBIP44, p.Chain.CoinType(), ChangeLevel, p.Account)
}

// Indices returns the hardened child indices for each level.
func (p Path) Indices() []uint32 {
	return []uint32{
		bip32.FirstHardenedChild + PurposeBIP44,
		bip32.FirstHardenedChild + p.Chain.CoinType(),
		bip32.FirstHardenedChild + ChangeLevel,
		bip32.FirstHardenedChild + p.Account,
	}
}

// ParsePath parses a four-level path. The last level may be written with
// or without an apostrophe; all levels are treated as hardened. The coin
// type must belong to a supported chain.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 5 || parts[0] != "m" {
		return Path{}, fmt.Errorf("%w: %q", ErrUnsupportedPath, s)
	}

	var levels [4]uint32
	for i, part := range parts[1:] {
		trimmed := strings.TrimSuffix(part, "'")
		if trimmed == part && i < 3 {
			return Path{}, fmt.Errorf("%w: level %d of %q is not hardened", ErrUnsupportedPath, i+1, s)
		}
		n, err := strconv.ParseUint(trimmed, 10, 31)
		if err != nil {
			return Path{}, fmt.Errorf("%w: level %d of %q: %v", ErrUnsupportedPath, i+1, s, err)
		}
		levels[i] = uint32(n)
	}

	if levels[0] != PurposeBIP44 {
		return Path{}, fmt.Errorf("%w: purpose %d", ErrUnsupportedPath, levels[0])
	}
	if levels[2] != ChangeLevel {
		return Path{}, fmt.Errorf("%w: third level %d", ErrUnsupportedPath, levels[2])
	}
	chain := Chain(levels[1])
	if !chain.Supported() {
		return Path{}, fmt.Errorf("%w: unknown coin type %d", ErrUnsupportedPath, levels[1])
	}
	return Path{Chain: chain, Account: levels[3]}, nil
}
