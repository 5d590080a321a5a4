package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSeedFromMnemonic(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}

	if len(seed) != SeedSize {
		t.Errorf("seed length = %d, want %d", len(seed), SeedSize)
	}
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		want       string
	}{
		{
			name:       "empty passphrase",
			passphrase: "",
			want:       "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		},
		{
			name:       "TREZOR passphrase",
			passphrase: "TREZOR",
			want:       "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := SeedFromMnemonic(testMnemonic, tt.passphrase)
			if err != nil {
				t.Fatalf("SeedFromMnemonic() error: %v", err)
			}
			want, _ := hex.DecodeString(tt.want)
			if !bytes.Equal(seed, want) {
				t.Errorf("seed = %x, want %x", seed, want)
			}
		})
	}
}

func TestSeedFromMnemonic_Deterministic(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	seed2, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}

	if !bytes.Equal(seed1, seed2) {
		t.Error("same mnemonic should produce same seed")
	}
}

func TestSeedFromMnemonic_InvalidMnemonic(t *testing.T) {
	for _, m := range []string{"", "not valid words here"} {
		_, err := SeedFromMnemonic(m, "")
		if !errors.Is(err, ErrInvalidMnemonic) {
			t.Errorf("SeedFromMnemonic(%q) error = %v, want ErrInvalidMnemonic", m, err)
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint(testMnemonic)
	if len(fp) != 8 {
		t.Fatalf("Fingerprint() = %q, want 8 hex chars", fp)
	}
	if fp != Fingerprint(testMnemonic) {
		t.Error("Fingerprint() should be deterministic")
	}

	other, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	if Fingerprint(other) == fp {
		t.Error("different mnemonics should have different fingerprints")
	}

	if Fingerprint("not a mnemonic") != "" {
		t.Error("Fingerprint() of invalid mnemonic should be empty")
	}
}
