package wallet

import (
	"errors"
	"testing"
)

func TestDerivePath(t *testing.T) {
	tests := []struct {
		chain   Chain
		account uint32
		want    string
	}{
		{Solana, 0, "m/44'/501'/0'/0"},
		{Solana, 7, "m/44'/501'/0'/7"},
		{Ethereum, 0, "m/44'/60'/0'/0"},
		{Ethereum, MaxAccountIndex, "m/44'/60'/0'/2147483647"},
	}

	for _, tt := range tests {
		got, err := DerivePath(tt.chain, tt.account)
		if err != nil {
			t.Fatalf("DerivePath(%s, %d) error: %v", tt.chain, tt.account, err)
		}
		if got != tt.want {
			t.Errorf("DerivePath(%s, %d) = %q, want %q", tt.chain, tt.account, got, tt.want)
		}
	}
}

func TestDerivePath_Errors(t *testing.T) {
	if _, err := DerivePath(Chain(999), 0); !errors.Is(err, ErrUnsupportedChain) {
		t.Errorf("unsupported chain error = %v, want ErrUnsupportedChain", err)
	}
	if _, err := DerivePath(Solana, MaxAccountIndex+1); err == nil {
		t.Error("account beyond hardened range should fail")
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"m/44'/501'/0'/0", Path{Chain: Solana, Account: 0}},
		{"m/44'/501'/0'/12'", Path{Chain: Solana, Account: 12}},
		{"m/44'/60'/0'/3", Path{Chain: Ethereum, Account: 3}},
	}

	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if err != nil {
			t.Fatalf("ParsePath(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePath(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParsePath_Rejects(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"no root", "44'/501'/0'/0"},
		{"too short", "m/44'/501'/0'"},
		{"too long", "m/44'/501'/0'/0'/0'"},
		{"unhardened coin", "m/44'/501/0'/0"},
		{"wrong purpose", "m/49'/501'/0'/0"},
		{"wrong third level", "m/44'/501'/1'/0"},
		{"unknown coin type", "m/44'/999'/0'/0"},
		{"not a number", "m/44'/abc'/0'/0"},
		{"negative", "m/44'/501'/0'/-1"},
		{"beyond hardened range", "m/44'/501'/0'/2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.path)
			if !errors.Is(err, ErrUnsupportedPath) {
				t.Errorf("ParsePath(%q) error = %v, want ErrUnsupportedPath", tt.path, err)
			}
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	p := Path{Chain: Ethereum, Account: 42}
	got, err := ParsePath(p.String())
	if err != nil {
		t.Fatalf("ParsePath() error: %v", err)
	}
	if got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
	if p.Hardened() != "m/44'/60'/0'/42'" {
		t.Errorf("Hardened() = %q", p.Hardened())
	}
}
