package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/hdvault/internal/session"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() Params {
	return Params{
		Memory:      64, // 64 KiB (minimal)
		Iterations:  1,
		Parallelism: 1,
	}
}

func newSealed(t *testing.T, inner session.Persistence, pass string) *SealedPort {
	t.Helper()
	sp, err := NewSealedPort(inner, []byte(pass), fastParams())
	if err != nil {
		t.Fatalf("NewSealedPort() error: %v", err)
	}
	return sp
}

func TestSealedPort_Suite(t *testing.T) {
	testPort(t, newSealed(t, NewKVPort(NewMemory()), "pass"))
}

func TestSealedPort_SuiteWithoutBatches(t *testing.T) {
	testPort(t, newSealed(t, plainPort{NewKVPort(NewMemory())}, "pass"))
}

func TestSealedPort_CiphertextAtRest(t *testing.T) {
	kv := NewKVPort(NewMemory())
	sp := newSealed(t, kv, "pass")

	secret := `["abandon","about"]`
	if err := sp.Set("mnemonic", secret); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	raw, ok, err := kv.Get("mnemonic")
	if err != nil || !ok {
		t.Fatalf("inner Get() = %v, %v", ok, err)
	}
	if strings.Contains(raw, "abandon") {
		t.Error("plaintext visible in stored value")
	}

	// Same plaintext encrypts differently each time.
	sp.Set("other", secret)
	raw2, _, _ := kv.Get("other")
	if raw == raw2 {
		t.Error("identical ciphertexts for two writes")
	}
}

func TestSealedPort_Reopen(t *testing.T) {
	kv := NewKVPort(NewMemory())
	sp := newSealed(t, kv, "correct horse")
	sp.Set("wallets", "[]")

	// Reopen reads params from the header, not the caller.
	reopened, err := NewSealedPort(kv, []byte("correct horse"), DefaultParams())
	if err != nil {
		t.Fatalf("NewSealedPort() reopen error: %v", err)
	}
	v, ok, err := reopened.Get("wallets")
	if err != nil || !ok || v != "[]" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestSealedPort_WrongPassphrase(t *testing.T) {
	kv := NewKVPort(NewMemory())
	newSealed(t, kv, "right")

	_, err := NewSealedPort(kv, []byte("wrong"), fastParams())
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("NewSealedPort() error = %v, want ErrWrongPassphrase", err)
	}
}

func TestSealedPort_EmptyPassphrase(t *testing.T) {
	if _, err := NewSealedPort(NewKVPort(NewMemory()), nil, fastParams()); err == nil {
		t.Error("expected error for empty passphrase")
	}
}

func TestSealedPort_SwappedValues(t *testing.T) {
	kv := NewKVPort(NewMemory())
	sp := newSealed(t, kv, "pass")
	sp.Set("wallets", "w")
	sp.Set("paths", "p")

	w, _, _ := kv.Get("wallets")
	p, _, _ := kv.Get("paths")
	kv.Set("wallets", p)
	kv.Set("paths", w)

	if _, _, err := sp.Get("wallets"); err == nil {
		t.Error("value moved to another key should not decrypt")
	}
}

func TestSealedPort_CorruptHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"not base64", "!!!"},
		{"too short", "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewKVPort(NewMemory())
			kv.Set(SealKey, tt.header)
			if _, err := NewSealedPort(kv, []byte("pass"), fastParams()); err == nil {
				t.Error("expected error for corrupt header")
			}
		})
	}
}

func TestSealedPort_TamperedValue(t *testing.T) {
	kv := NewKVPort(NewMemory())
	sp := newSealed(t, kv, "pass")
	sp.Set("cursor", "4")
	kv.Set("cursor", "not-base64!")

	if _, _, err := sp.Get("cursor"); err == nil {
		t.Error("expected error for tampered value")
	}
}

// plainPort hides the BatchWriter implementation of the wrapped port.
type plainPort struct {
	session.Persistence
}
