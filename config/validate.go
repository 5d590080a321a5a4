package config

import (
	"fmt"

	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/storage"
	"github.com/Klingon-tech/hdvault/internal/wallet"
)

// Validate checks config for obvious operator mistakes and normalizes
// the derivation scheme name.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must be set")
	}

	switch cfg.Storage.Backend {
	case storage.BackendBadger, storage.BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be %q or %q", storage.BackendBadger, storage.BackendMemory)
	}
	if cfg.Storage.Encrypt {
		if cfg.Storage.KDFMemory < 8*uint32(cfg.Storage.KDFThreads) || cfg.Storage.KDFMemory == 0 {
			return fmt.Errorf("storage.kdf_memory must be at least 8 KiB per thread")
		}
		if cfg.Storage.KDFIterations == 0 {
			return fmt.Errorf("storage.kdf_iterations must be positive")
		}
		if cfg.Storage.KDFThreads == 0 {
			return fmt.Errorf("storage.kdf_threads must be positive")
		}
	}

	scheme, err := wallet.ParseScheme(cfg.Derivation.Secp256k1)
	if err != nil {
		return fmt.Errorf("derivation.secp256k1: %w", err)
	}
	cfg.Derivation.Secp256k1 = string(scheme)

	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, error or disabled")
	}
	return nil
}
