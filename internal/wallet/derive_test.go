package wallet

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"", SchemeSLIP10, false},
		{"slip10", SchemeSLIP10, false},
		{"BIP32", SchemeBIP32, false},
		{"ed448", "", true},
	}

	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseScheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeriveKeyMaterial_Deterministic(t *testing.T) {
	seed := testSeed(t)
	d := NewDeriver(SchemeSLIP10)

	for _, path := range []string{"m/44'/501'/0'/0", "m/44'/60'/0'/0"} {
		a, err := d.DeriveKeyMaterial(seed, path)
		if err != nil {
			t.Fatalf("DeriveKeyMaterial(%s) error: %v", path, err)
		}
		b, err := d.DeriveKeyMaterial(seed, path)
		if err != nil {
			t.Fatalf("DeriveKeyMaterial(%s) error: %v", path, err)
		}
		if len(a) != KeyMaterialSize {
			t.Errorf("material length = %d, want %d", len(a), KeyMaterialSize)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("DeriveKeyMaterial(%s) not deterministic", path)
		}
	}
}

func TestDeriveKeyMaterial_DistinctAccounts(t *testing.T) {
	seed := testSeed(t)
	d := NewDeriver(SchemeSLIP10)

	seen := make(map[string]string)
	for account := uint32(0); account < 5; account++ {
		path, err := DerivePath(Solana, account)
		if err != nil {
			t.Fatalf("DerivePath() error: %v", err)
		}
		m, err := d.DeriveKeyMaterial(seed, path)
		if err != nil {
			t.Fatalf("DeriveKeyMaterial(%s) error: %v", path, err)
		}
		if prev, ok := seen[string(m)]; ok {
			t.Fatalf("%s and %s derived the same material", prev, path)
		}
		seen[string(m)] = path
	}
}

func TestDeriveKeyMaterial_UnhardenedSuffixIgnored(t *testing.T) {
	seed := testSeed(t)
	d := NewDeriver(SchemeSLIP10)

	a, err := d.DeriveKeyMaterial(seed, "m/44'/501'/0'/3")
	if err != nil {
		t.Fatalf("DeriveKeyMaterial() error: %v", err)
	}
	b, err := d.DeriveKeyMaterial(seed, "m/44'/501'/0'/3'")
	if err != nil {
		t.Fatalf("DeriveKeyMaterial() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("stored and hardened path forms should derive the same material")
	}
}

func TestDeriveKeyMaterial_Schemes(t *testing.T) {
	seed := testSeed(t)
	slip := NewDeriver(SchemeSLIP10)
	bip := NewDeriver(SchemeBIP32)

	ethSlip, err := slip.DeriveKeyMaterial(seed, "m/44'/60'/0'/0")
	if err != nil {
		t.Fatalf("slip10 error: %v", err)
	}
	ethBip, err := bip.DeriveKeyMaterial(seed, "m/44'/60'/0'/0")
	if err != nil {
		t.Fatalf("bip32 error: %v", err)
	}
	if bytes.Equal(ethSlip, ethBip) {
		t.Error("bip32 and slip10 should differ for secp256k1 chains")
	}

	// ed25519 chains ignore the secp256k1 scheme.
	solSlip, _ := slip.DeriveKeyMaterial(seed, "m/44'/501'/0'/0")
	solBip, _ := bip.DeriveKeyMaterial(seed, "m/44'/501'/0'/0")
	if !bytes.Equal(solSlip, solBip) {
		t.Error("ed25519 chains should always use slip10")
	}

	// bip32 material matches the HDKey wrapper.
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	key, err := master.DerivePath(Path{Chain: Ethereum, Account: 0}.Indices()...)
	if err != nil {
		t.Fatalf("DerivePath() error: %v", err)
	}
	if !bytes.Equal(ethBip, key.PrivateKeyBytes()) {
		t.Error("bip32 material should match HDKey derivation")
	}
}

func TestDeriveKeyMaterial_Errors(t *testing.T) {
	d := NewDeriver("")
	if d.Scheme() != SchemeSLIP10 {
		t.Errorf("default scheme = %q, want slip10", d.Scheme())
	}

	if _, err := d.DeriveKeyMaterial(make([]byte, 32), "m/44'/501'/0'/0"); err == nil {
		t.Error("expected error for short seed")
	}
	if _, err := d.DeriveKeyMaterial(testSeed(t), "m/44'/999'/0'/0"); !errors.Is(err, ErrUnsupportedPath) {
		t.Errorf("unknown coin error = %v, want ErrUnsupportedPath", err)
	}
}
