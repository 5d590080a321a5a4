package wallet

import "errors"

// Derivation pipeline errors. Callers match them with errors.Is; the
// returned errors usually wrap one of these with more context.
var (
	// ErrInvalidMnemonic is returned when a phrase fails the BIP-39
	// wordlist or checksum check.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrUnsupportedChain is returned when no key factory is bound to a chain.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedPath is returned for a malformed derivation path or one
	// whose coin type matches no known chain.
	ErrUnsupportedPath = errors.New("unsupported derivation path")
)
