package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error: %v", err)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("default backend = %q, want badger", cfg.Storage.Backend)
	}
	if cfg.Derivation.Secp256k1 != "slip10" {
		t.Errorf("default scheme = %q, want slip10", cfg.Derivation.Secp256k1)
	}
	if p := cfg.KDFParams(); p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		t.Errorf("KDFParams() = %+v", p)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdvault.conf")
	content := `# comment
storage.backend = memory
log.level = "debug"
notify.desktop = yes

derivation.secp256k1 = 'bip32'
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	want := map[string]string{
		"storage.backend":      "memory",
		"log.level":            "debug",
		"notify.desktop":       "yes",
		"derivation.secp256k1": "bip32",
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("values[%q] = %q, want %q", k, values[k], v)
		}
	}

	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Storage.Backend != "memory" || cfg.Log.Level != "debug" || !cfg.Notify.Desktop || cfg.Derivation.Secp256k1 != "bip32" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("log.level\n"), 0600)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	cfg := Default()
	err := ApplyFileConfig(cfg, map[string]string{"storage.kdf_threads": "300"})
	if err == nil {
		t.Error("expected error for out-of-range kdf_threads")
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--datadir", "/tmp/v", "--storage=memory", "--encrypt", "--log-json=false", "list", "--show-keys"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.DataDir != "/tmp/v" || f.Storage != "memory" {
		t.Errorf("flags = %+v", f)
	}
	if !f.SetEncrypt || !f.Encrypt {
		t.Error("--encrypt not recorded")
	}
	if !f.SetLogJSON || f.LogJSON {
		t.Error("--log-json=false not recorded")
	}
	if f.SetNotifyDesktop {
		t.Error("--notify-desktop reported set")
	}
	if strings.Join(f.Args, " ") != "list --show-keys" {
		t.Errorf("Args = %v", f.Args)
	}
}

func TestParseFlags_Help(t *testing.T) {
	if _, err := ParseFlags([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
	if _, err := ParseFlags([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestApplyFlags_Precedence(t *testing.T) {
	cfg := Default()
	cfg.Storage.Encrypt = true
	cfg.Log.JSON = true

	f, _ := ParseFlags([]string{"--encrypt=false", "--derivation", "bip32"})
	ApplyFlags(cfg, f)

	if cfg.Storage.Encrypt {
		t.Error("--encrypt=false should override the file value")
	}
	if !cfg.Log.JSON {
		t.Error("unset --log-json should keep the file value")
	}
	if cfg.Derivation.Secp256k1 != "bip32" {
		t.Errorf("derivation = %q", cfg.Derivation.Secp256k1)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"nil datadir", func(c *Config) { c.DataDir = "" }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }},
		{"unknown scheme", func(c *Config) { c.Derivation.Secp256k1 = "ed448" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero kdf iterations", func(c *Config) { c.Storage.Encrypt = true; c.Storage.KDFIterations = 0 }},
		{"zero kdf threads", func(c *Config) { c.Storage.Encrypt = true; c.Storage.KDFThreads = 0 }},
		{"kdf memory too small", func(c *Config) { c.Storage.Encrypt = true; c.Storage.KDFMemory = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}

	cfg := Default()
	cfg.Derivation.Secp256k1 = " BIP32 "
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Derivation.Secp256k1 != "bip32" {
		t.Errorf("scheme not normalized: %q", cfg.Derivation.Secp256k1)
	}
}

func TestLoad_CreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")
	cfg, flags, err := Load([]string{"--datadir", dir, "--storage", "memory", "chains"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != dir || cfg.Storage.Backend != "memory" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(flags.Args) != 1 || flags.Args[0] != "chains" {
		t.Errorf("Args = %v", flags.Args)
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if _, err := os.Stat(cfg.LogsDir()); err != nil {
		t.Errorf("logs dir not created: %v", err)
	}

	// The written defaults load back cleanly.
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	again := Default()
	if err := ApplyFileConfig(again, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	again.DataDir = dir
	if err := Validate(again); err != nil {
		t.Errorf("Validate() of written defaults error: %v", err)
	}
}

func TestLoad_ConfigFileOverride(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.conf")
	os.WriteFile(custom, []byte("storage.backend = memory\nlog.level = error\n"), 0600)

	cfg, _, err := Load([]string{"--datadir", dir, "-c", custom, "--log-level", "debug"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend = %q, want memory from file", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, flag should win", cfg.Log.Level)
	}
}
