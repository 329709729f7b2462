// Package app provides the dependency injection container that wires
// configuration into the vault core's collaborators (C1-C5) and the
// metrics/biometric ambient services around them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	aeadService "github.com/rajnish8869/SecureVault-Manager/internal/aead/service"
	"github.com/rajnish8869/SecureVault-Manager/internal/biometric"
	"github.com/rajnish8869/SecureVault-Manager/internal/config"
	credService "github.com/rajnish8869/SecureVault-Manager/internal/credential/service"
	kdfService "github.com/rajnish8869/SecureVault-Manager/internal/kdf/service"
	"github.com/rajnish8869/SecureVault-Manager/internal/metrics"
	storeService "github.com/rajnish8869/SecureVault-Manager/internal/store/service"
	vaultService "github.com/rajnish8869/SecureVault-Manager/internal/vault/service"
)

// Container holds all application dependencies and provides methods to
// access them. It follows the lazy initialization pattern - components
// are created on first access, mirroring the teacher's DI container.
type Container struct {
	config *config.Config

	logger  *slog.Logger
	kdf     kdfService.KDF
	store   storeService.Store
	reg     credService.Registry
	metrics *metrics.Provider
	vault   *vaultService.Manager
	sealer  *biometric.KeeperSealer

	mu           sync.Mutex
	loggerInit   sync.Once
	kdfInit      sync.Once
	storeInit    sync.Once
	regInit      sync.Once
	metricsInit  sync.Once
	vaultInit    sync.Once
	sealerInit   sync.Once
	initErrors   map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance. It creates a new
// logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// KDF returns the key-derivation function selected by VAULT_KDF_ALGORITHM.
func (c *Container) KDF() (kdfService.KDF, error) {
	var err error
	c.kdfInit.Do(func() {
		c.kdf, err = c.initKDF()
		if err != nil {
			c.initErrors["kdf"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kdf"]; exists {
		return nil, storedErr
	}
	return c.kdf, nil
}

// Store returns the object store rooted at the configured vault directory.
func (c *Container) Store() (storeService.Store, error) {
	var err error
	c.storeInit.Do(func() {
		c.store, err = c.initStore()
		if err != nil {
			c.initErrors["store"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["store"]; exists {
		return nil, storedErr
	}
	return c.store, nil
}

// Registry returns the credential registry. It is deliberately a
// separate file from the object store's tree (spec §4.4: the registry
// must be readable before any secret is known).
func (c *Container) Registry() (credService.Registry, error) {
	var err error
	c.regInit.Do(func() {
		c.reg, err = c.initRegistry()
		if err != nil {
			c.initErrors["registry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registry"]; exists {
		return nil, storedErr
	}
	return c.reg, nil
}

// Metrics returns the Prometheus-backed metrics provider.
func (c *Container) Metrics() *metrics.Provider {
	c.metricsInit.Do(func() {
		c.metrics = metrics.NewProvider(c.config.MetricsNamespace)
	})
	return c.metrics
}

// Vault returns the vault manager (C5), wiring together the KDF,
// AEAD algorithm selection, object store, credential registry and
// metrics provider.
func (c *Container) Vault(ctx context.Context) (*vaultService.Manager, error) {
	var err error
	c.vaultInit.Do(func() {
		c.vault, err = c.initVault(ctx)
		if err != nil {
			c.initErrors["vault"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vault"]; exists {
		return nil, storedErr
	}
	return c.vault, nil
}

// BiometricSealer lazily opens the gocloud.dev/secrets Keeper used to
// seal a cached master secret for the biometric broker (spec §9 open
// question 3). It is only initialized when VAULT_BIOMETRIC_KEEPER_URL
// is set; callers that never touch biometric unlock never pay for it.
func (c *Container) BiometricSealer(ctx context.Context) (*biometric.KeeperSealer, error) {
	if c.config.BiometricKeeperURL == "" {
		return nil, nil
	}
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = biometric.OpenKeeperSealer(ctx, c.config.BiometricKeeperURL)
		if err != nil {
			c.initErrors["sealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealer"]; exists {
		return nil, storedErr
	}
	return c.sealer, nil
}

// Shutdown performs cleanup of all initialized resources. It should be
// called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.sealer != nil {
		if err := c.sealer.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("biometric sealer close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

// initLogger creates and configures a structured logger based on the
// log level, matching the teacher's LOG_LEVEL switch.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// initKDF builds the configured KDF, rejecting cost parameters below
// the spec §4.1 security floor via the constructor's own validation.
func (c *Container) initKDF() (kdfService.KDF, error) {
	switch c.config.KDFAlgorithm {
	case "argon2id":
		return kdfService.NewArgon2idKDF(c.config.Argon2Time, c.config.Argon2MemoryKiB, c.config.Argon2Threads)
	case "pbkdf2":
		return kdfService.NewPBKDF2KDF(c.config.PBKDF2Iterations)
	default:
		return nil, fmt.Errorf("unknown VAULT_KDF_ALGORITHM %q", c.config.KDFAlgorithm)
	}
}

// initStore builds the filesystem object store rooted at VaultDir.
func (c *Container) initStore() (storeService.Store, error) {
	return storeService.NewFilesystemStore(c.config.VaultDir)
}

// initRegistry builds the file-backed credential registry at a path
// outside the object store's tree entirely (config.Config.RegistryDir
// is a sibling of VaultDir), so Store.WipeTree can never reach it.
func (c *Container) initRegistry() (credService.Registry, error) {
	return credService.NewFileRegistry(filepath.Join(c.config.RegistryDir, "registry"))
}

// initVault assembles the vault manager from its collaborators.
func (c *Container) initVault(ctx context.Context) (*vaultService.Manager, error) {
	kdf, err := c.KDF()
	if err != nil {
		return nil, err
	}
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}

	var alg aeadService.Algorithm
	switch c.config.AEADAlgorithm {
	case "aes-gcm":
		alg = aeadService.AESGCM
	case "chacha20-poly1305":
		alg = aeadService.ChaCha20Poly1305
	default:
		return nil, fmt.Errorf("unknown VAULT_AEAD_ALGORITHM %q", c.config.AEADAlgorithm)
	}

	return vaultService.NewManager(ctx, vaultService.Config{
		KDF:           kdf,
		AEADAlgorithm: alg,
		Store:         store,
		Registry:      reg,
		MetadataMaxBytes: int(c.config.MetadataEnvelopeMaxBytes),
		Rotation: vaultService.RotationConfig{
			Workers:    c.config.RotationWorkers,
			MaxRetries: c.config.RotationMaxRetries,
		},
		Logger:  c.Logger(),
		Metrics: c.Metrics(),
	})
}
