package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "datadir":
		cfg.DataDir = value

	// Storage
	case "storage.backend", "storage":
		cfg.Storage.Backend = strings.ToLower(value)
	case "storage.encrypt", "encrypt":
		cfg.Storage.Encrypt = parseBool(value)
	case "storage.kdf_memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Storage.KDFMemory = uint32(n)
	case "storage.kdf_iterations":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Storage.KDFIterations = uint32(n)
	case "storage.kdf_threads":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.Storage.KDFThreads = uint8(n)

	// Derivation
	case "derivation.secp256k1":
		cfg.Derivation.Secp256k1 = strings.ToLower(value)

	// Notifications
	case "notify.desktop":
		cfg.Notify.Desktop = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	kdf := Default().KDFParams()
	content := `# hdvault configuration
#
# key = value, one per line. Command-line flags override these values.

# Data directory (default: ~/.hdvault)
# datadir = ~/.hdvault

# ============================================================================
# Storage
# ============================================================================

# Backend: badger (durable, default) or memory (discarded on exit)
storage.backend = badger

# Encrypt stored wallets with a passphrase (HDVAULT_PASSPHRASE or prompt)
storage.encrypt = false

# Argon2id cost for a new encrypted vault
# storage.kdf_memory = ` + strconv.FormatUint(uint64(kdf.Memory), 10) + `
# storage.kdf_iterations = ` + strconv.FormatUint(uint64(kdf.Iterations), 10) + `
# storage.kdf_threads = ` + strconv.FormatUint(uint64(kdf.Parallelism), 10) + `

# ============================================================================
# Derivation
# ============================================================================

# HD scheme for secp256k1 chains: slip10 (default) or bip32.
# Changing this changes every derived Ethereum address.
derivation.secp256k1 = slip10

# ============================================================================
# Notifications
# ============================================================================

# Show desktop notifications for wallet events
notify.desktop = false

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
