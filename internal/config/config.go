// Package config provides application configuration management through environment variables.
package config

import (
	"os"
	"path/filepath"

	env "github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// VaultDir is the private application directory the object store is
	// rooted at. WipeTree recursively deletes everything under it, so it
	// must not be shared with anything the registry owns (spec §3's C3/C4
	// ownership separation).
	VaultDir string

	// RegistryDir is the private application directory the credential
	// registry is rooted at, kept as a sibling of VaultDir rather than a
	// subdirectory of it so C3's WipeTree can never reach C4's auth record.
	RegistryDir string

	// KDFAlgorithm selects the key-derivation function: "argon2id" (default,
	// preferred per spec §4.1) or "pbkdf2" (minimum-acceptable fallback).
	KDFAlgorithm string

	// Argon2 cost parameters. Defaults satisfy spec §4.1 ("Argon2id with
	// >=64 MiB memory and >=3 passes").
	Argon2Time    uint32
	Argon2MemoryKiB uint32
	Argon2Threads uint8

	// PBKDF2Iterations is used only when KDFAlgorithm is "pbkdf2". Spec
	// §4.1 requires >=100000 as the minimum acceptable design.
	PBKDF2Iterations int

	// AEADAlgorithm selects "aes-gcm" (default) or "chacha20-poly1305".
	AEADAlgorithm string

	// RotationWorkers bounds the per-file re-encryption worker pool used
	// during credential rotation (spec §5). Zero means "use NumCPU".
	RotationWorkers int

	// RotationMaxRetries bounds the per-file retry count during rotation
	// (spec §4.5 step 4) before the rotation aborts.
	RotationMaxRetries int

	// MetadataEnvelopeMaxBytes bounds the decoded size of a metadata
	// envelope's plaintext (spec §6, default 4 MiB).
	MetadataEnvelopeMaxBytes int64

	// LogLevel controls the slog handler's minimum level.
	LogLevel string

	// MetricsNamespace prefixes all exported metric names.
	MetricsNamespace string

	// BiometricKeeperURL, when set, is a gocloud.dev/secrets Keeper URL
	// (e.g. "hashivault://my-transit-key") used to seal the cached
	// master secret for the external biometric broker (spec §9 open
	// question 3). Empty disables biometric unlock entirely.
	BiometricKeeperURL string
}

// Load loads configuration from environment variables.
// It first attempts to load a .env file by searching recursively from the current directory
// up to the root directory. If no .env file is found, it continues with existing environment variables.
func Load() *Config {
	loadDotEnv()

	vaultDir := env.GetString("VAULT_DIR", defaultVaultDir())

	return &Config{
		VaultDir:    vaultDir,
		RegistryDir: env.GetString("VAULT_REGISTRY_DIR", defaultRegistryDir(vaultDir)),

		KDFAlgorithm: env.GetString("VAULT_KDF_ALGORITHM", "argon2id"),

		Argon2Time:      uint32(env.GetInt("VAULT_ARGON2_TIME", 3)),
		Argon2MemoryKiB: uint32(env.GetInt("VAULT_ARGON2_MEMORY_KIB", 64*1024)),
		Argon2Threads:   uint8(env.GetInt("VAULT_ARGON2_THREADS", 4)),

		PBKDF2Iterations: env.GetInt("VAULT_PBKDF2_ITERATIONS", 200_000),

		AEADAlgorithm: env.GetString("VAULT_AEAD_ALGORITHM", "aes-gcm"),

		RotationWorkers:    env.GetInt("VAULT_ROTATION_WORKERS", 0),
		RotationMaxRetries: env.GetInt("VAULT_ROTATION_MAX_RETRIES", 3),

		MetadataEnvelopeMaxBytes: int64(env.GetInt("VAULT_METADATA_MAX_BYTES", 4*1024*1024)),

		LogLevel:         env.GetString("LOG_LEVEL", "info"),
		MetricsNamespace: env.GetString("VAULT_METRICS_NAMESPACE", "securevault"),

		BiometricKeeperURL: env.GetString("VAULT_BIOMETRIC_KEEPER_URL", ""),
	}
}

// defaultVaultDir returns the per-user default storage root when VAULT_DIR
// is not set. It never creates the directory; that is the object store's job.
func defaultVaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".securevault"
	}
	return filepath.Join(home, ".securevault")
}

// defaultRegistryDir places the registry's file as a sibling of
// vaultDir rather than inside it, so the object store's WipeTree can
// never incidentally delete the credential registry (spec §3's C3/C4
// ownership separation).
func defaultRegistryDir(vaultDir string) string {
	return filepath.Join(filepath.Dir(vaultDir), filepath.Base(vaultDir)+"-registry")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
