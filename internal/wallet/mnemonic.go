// Package wallet implements HD wallet derivation: BIP-39 mnemonics, seeds,
// hardened derivation paths and the per-chain key factories that turn
// derived key material into encoded wallet records.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 12-word mnemonics.
const MnemonicEntropyBits = 128

// MnemonicWords is the number of words in a generated mnemonic.
const MnemonicWords = 12

// GenerateMnemonic creates a new 12-word BIP-39 mnemonic from
// crypto/rand entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	if strings.TrimSpace(mnemonic) == "" {
		return false
	}
	return bip39.IsMnemonicValid(mnemonic)
}

// ValidateWords is ValidateMnemonic for a phrase already split into words.
func ValidateWords(words []string) bool {
	for _, w := range words {
		if w == "" || strings.ContainsAny(w, " \t\r\n") {
			return false
		}
	}
	return ValidateMnemonic(strings.Join(words, " "))
}

// NormalizeMnemonic lower-cases a phrase and collapses runs of whitespace
// to single spaces, the form in which mnemonics are stored.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// SplitMnemonic returns the words of a normalized phrase.
func SplitMnemonic(mnemonic string) []string {
	return strings.Fields(NormalizeMnemonic(mnemonic))
}
