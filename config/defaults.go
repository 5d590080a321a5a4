package config

import "github.com/Klingon-tech/hdvault/internal/storage"

// Default returns the default configuration.
func Default() *Config {
	kdf := storage.DefaultParams()
	return &Config{
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Backend:       storage.BackendBadger,
			Encrypt:       false,
			KDFMemory:     kdf.Memory,
			KDFIterations: kdf.Iterations,
			KDFThreads:    kdf.Parallelism,
		},
		Derivation: DerivationConfig{
			Secp256k1: "slip10",
		},
		Notify: NotifyConfig{
			Desktop: false,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}

// KDFParams returns the Argon2id parameters for a new encrypted vault.
func (c *Config) KDFParams() storage.Params {
	return storage.Params{
		Memory:      c.Storage.KDFMemory,
		Iterations:  c.Storage.KDFIterations,
		Parallelism: c.Storage.KDFThreads,
	}
}
