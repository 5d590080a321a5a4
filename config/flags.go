package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is the hdvault release.
const Version = "0.1.0"

// Flags holds parsed global command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir string
	Config  string

	// Storage
	Storage string
	Encrypt bool

	// Derivation
	Derivation string

	// Notifications
	NotifyDesktop bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args: the command and its arguments.
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetEncrypt       bool
	SetNotifyDesktop bool
	SetLogJSON       bool
}

// ParseFlags parses the global flags that precede the command name.
// flag.ErrHelp is returned for -h/--help.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("hdvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Storage
	fs.StringVar(&f.Storage, "storage", "", "Storage backend (badger or memory)")
	fs.BoolVar(&f.Encrypt, "encrypt", false, "Encrypt stored wallets with a passphrase")

	// Derivation
	fs.StringVar(&f.Derivation, "derivation", "", "HD scheme for secp256k1 chains (slip10 or bip32)")

	// Notifications
	fs.BoolVar(&f.NotifyDesktop, "notify-desktop", false, "Show desktop notifications")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f.SetEncrypt = isFlagSet(fs, "encrypt")
	f.SetNotifyDesktop = isFlagSet(fs, "notify-desktop")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Storage
	if f.Storage != "" {
		cfg.Storage.Backend = f.Storage
	}
	if f.SetEncrypt {
		cfg.Storage.Encrypt = f.Encrypt
	}

	// Derivation
	if f.Derivation != "" {
		cfg.Derivation.Secp256k1 = f.Derivation
	}

	// Notifications
	if f.SetNotifyDesktop {
		cfg.Notify.Desktop = f.NotifyDesktop
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the command-line help to w.
func PrintUsage(w io.Writer) {
	usage := `hdvault - hierarchical deterministic wallet generator

Usage:
  hdvault [options] <command> [arguments]

Commands:
  generate --chain <chain> [--mnemonic "<phrase>" | --mnemonic-stdin]
                  Derive the first wallet of a session, from a fresh or
                  supplied recovery phrase
  add             Derive the next account from the session phrase
  delete <n>      Delete wallet n (as numbered by list)
  clear [--yes] [--wipe]
                  Delete every wallet and the session phrase; --wipe also
                  forgets the encryption passphrase
  list [--show-keys] [--show-phrase]
                  Show wallets; secrets are masked unless requested
  shell           Interactive session
  chains          List supported chains
  version         Show version information

Options:
  --help, -h        Show this help message
  --version, -v     Show version information
  --datadir         Data directory (default: ~/.hdvault)
  --config, -c      Config file path (default: <datadir>/hdvault.conf)
  --storage         Storage backend: badger (default) or memory
  --encrypt         Encrypt stored wallets (passphrase from HDVAULT_PASSPHRASE
                    or prompt)
  --derivation      HD scheme for secp256k1 chains: slip10 (default) or bip32
  --notify-desktop  Show desktop notifications
  --log-level       Log level: debug, info, warn (default), error
  --log-file        Log file path (default: stderr only)
  --log-json        Output logs as JSON

Chains:
  solana (501, ed25519)    ethereum (60, secp256k1)

Examples:
  # New Solana wallet from a fresh phrase
  hdvault generate --chain solana

  # Restore Ethereum accounts from an existing phrase
  echo "<phrase>" | hdvault generate --chain eth --mnemonic-stdin
  hdvault add

  # Encrypted vault in a custom directory
  hdvault --encrypt --datadir=/secure/vault list --show-keys
`
	fmt.Fprint(w, usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := LoadWithFlags(flags)
	if err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}

// LoadWithFlags loads configuration for already parsed flags.
func LoadWithFlags(flags *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Override datadir if specified
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	// Determine config file path
	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	// Load config file
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	// Apply file config
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	// Apply flags (highest precedence)
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. It is idempotent and safe to call on
// every start.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Create default config if it doesn't exist.
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
