// Package config handles hdvault configuration.
//
// Settings come from, in increasing precedence: built-in defaults, the
// hdvault.conf file in the data directory, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// Persistence backend and encryption at rest
	Storage StorageConfig

	// Key derivation
	Derivation DerivationConfig

	// User notifications
	Notify NotifyConfig

	// Logging
	Log LogConfig
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend string `conf:"storage.backend"` // badger or memory
	Encrypt bool   `conf:"storage.encrypt"`

	// Argon2id cost for a newly created encrypted vault. Existing vaults
	// keep the parameters they were created with.
	KDFMemory     uint32 `conf:"storage.kdf_memory"` // KiB
	KDFIterations uint32 `conf:"storage.kdf_iterations"`
	KDFThreads    uint8  `conf:"storage.kdf_threads"`
}

// DerivationConfig holds key derivation settings.
type DerivationConfig struct {
	// Secp256k1 selects the HD scheme for secp256k1 chains: slip10 or bip32.
	Secp256k1 string `conf:"derivation.secp256k1"`
}

// NotifyConfig holds notification settings.
type NotifyConfig struct {
	Desktop bool `conf:"notify.desktop"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.hdvault
//	macOS:   ~/Library/Application Support/hdvault
//	Windows: %APPDATA%\hdvault
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hdvault"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "hdvault")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "hdvault")
		}
		return filepath.Join(home, "AppData", "Roaming", "hdvault")
	default:
		return filepath.Join(home, ".hdvault")
	}
}

// DBDir returns the database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.DataDir, "db")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "hdvault.conf")
}
