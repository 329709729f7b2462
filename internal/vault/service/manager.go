// Package service implements the vault manager component (C5): the
// state machine described in spec §4.5 that owns the session key and
// in-memory metadata index, orchestrating C1 (KDF), C2 (AEAD codec),
// C3 (object store) and C4 (credential registry).
package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
	aeadService "github.com/rajnish8869/SecureVault-Manager/internal/aead/service"
	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
	credService "github.com/rajnish8869/SecureVault-Manager/internal/credential/service"
	kdfService "github.com/rajnish8869/SecureVault-Manager/internal/kdf/service"
	"github.com/rajnish8869/SecureVault-Manager/internal/metrics"
	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
	storeService "github.com/rajnish8869/SecureVault-Manager/internal/store/service"
	"github.com/rajnish8869/SecureVault-Manager/internal/validation"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

// RotationConfig bounds the rotation protocol's worker pool and retry
// budget (spec §5: "SHOULD use a worker pool bounded by CPU count").
type RotationConfig struct {
	Workers    int
	MaxRetries int
}

// Config wires a Manager's collaborators and tunables.
type Config struct {
	KDF              kdfService.KDF
	AEADAlgorithm    aeadService.Algorithm
	Store            storeService.Store
	Registry         credService.Registry
	MetadataMaxBytes int
	Rotation         RotationConfig
	ProgressCallback func(done, total int)
	Logger           *slog.Logger
	Metrics          *metrics.Provider

	// ScreenGuard, when set, is toggled on while at least one preview
	// is open and off once the last one releases (spec §5). Nil
	// disables the hook entirely, a no-op on platforms with no task
	// switcher or screenshot concept to guard.
	ScreenGuard ScreenGuard
}

// Manager implements the vault manager state machine. A single instance
// is the sole owner of the session for a vault (spec §5: "Single
// logical owner per process"); every entry point serializes through mu.
type Manager struct {
	kdf              kdfService.KDF
	aeadAlgorithm    aeadService.Algorithm
	store            storeService.Store
	registry         credService.Registry
	metadataMaxBytes int
	rotation         RotationConfig
	progress         func(done, total int)
	logger           *slog.Logger
	metrics          *metrics.Provider
	screenGuard      ScreenGuard

	mu           sync.Mutex
	state        vaultDomain.State
	session      *vaultDomain.Session
	keyBuf       [aeadDomain.KeySize]byte
	openPreviews map[uint64]struct{}
	previewSeq   uint64
}

// NewManager constructs a Manager. IsInitialized is consulted against
// the registry to seed the starting state: UNINITIALIZED or LOCKED.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	maxBytes := cfg.MetadataMaxBytes
	if maxBytes <= 0 {
		maxBytes = 4 * 1024 * 1024
	}
	rotation := cfg.Rotation
	if rotation.Workers <= 0 {
		rotation.Workers = runtime.NumCPU()
	}
	if rotation.MaxRetries <= 0 {
		rotation.MaxRetries = 3
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		kdf:              cfg.KDF,
		aeadAlgorithm:    cfg.AEADAlgorithm,
		store:            cfg.Store,
		registry:         cfg.Registry,
		metadataMaxBytes: maxBytes,
		rotation:         rotation,
		progress:         cfg.ProgressCallback,
		logger:           logger,
		metrics:          cfg.Metrics,
		screenGuard:      cfg.ScreenGuard,
		openPreviews:     make(map[uint64]struct{}),
	}

	initialized, err := m.registry.IsInitialized(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query registry state: %w", err)
	}
	if initialized {
		m.state = vaultDomain.StateLocked
	} else {
		m.state = vaultDomain.StateUninitialized
	}
	return m, nil
}

// State reports the manager's current state. Safe to call concurrently
// with other operations; it only takes a momentary lock.
func (m *Manager) State() vaultDomain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// codecFor builds a Codec over the manager's configured AEAD algorithm
// for a derived key. Every call allocates a fresh Codec rather than
// caching one, since the key changes across identities and rotations.
func (m *Manager) codecFor(key []byte) (aeadService.Codec, error) {
	return aeadService.NewCodec(key, m.aeadAlgorithm)
}

// setSessionKey copies key into the manager's single persistent key
// buffer and returns a slice aliasing it. Keeping one backing array for
// the whole manager lifetime means zeroing it (on lock/reset/rotate)
// reliably clears every alias, including session.DataKey — this is what
// the debug hook in debug.go inspects for testable property 9.
func (m *Manager) setSessionKey(key []byte) []byte {
	copy(m.keyBuf[:], key)
	return m.keyBuf[:len(key)]
}

// zeroSessionKey overwrites the manager's persistent key buffer. Called
// on every exit from an unlocked state.
func (m *Manager) zeroSessionKey() {
	vaultDomain.Zero(m.keyBuf[:])
}

// recordUnlockOutcome increments the unlock-attempts counter, a no-op
// when no metrics.Provider was configured.
func (m *Manager) recordUnlockOutcome(outcome string) {
	if m.metrics == nil {
		return
	}
	m.metrics.UnlockAttempts.WithLabelValues(outcome).Inc()
}

// recordOperation increments the per-operation outcome counter, a
// no-op when no metrics.Provider was configured. Every C5 operation
// that can fail at runtime (not just unlock) reports through here so
// OperationTotal reflects the full operation surface, not just unlock.
func (m *Manager) recordOperation(operation, outcome string) {
	if m.metrics == nil {
		return
	}
	m.metrics.OperationTotal.WithLabelValues(operation, outcome).Inc()
}

// IsInitialized implements the is_initialized operation (spec §6).
func (m *Manager) IsInitialized(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != vaultDomain.StateUninitialized && m.state != vaultDomain.StateWiped, nil
}

// Init implements the init operation (spec §4.5, §6): generates a salt,
// derives the real verifier and data key, and persists an empty real
// metadata envelope under that key.
func (m *Manager) Init(ctx context.Context, secret []byte, lockType vaultDomain.LockType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != vaultDomain.StateUninitialized {
		return vaultDomain.ErrAlreadyInitialized
	}
	if err := validation.SecretShape(secret, lockType); err != nil {
		return err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	verifier, err := m.kdf.DeriveVerifier(secret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive verifier: %w", err)
	}
	key, err := m.kdf.DeriveKey(secret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive data key: %w", err)
	}
	defer vaultDomain.Zero(key)

	codec, err := m.codecFor(key)
	if err != nil {
		return err
	}
	envelope, err := codec.Encrypt([]byte(`{"items":[]}`))
	if err != nil {
		return fmt.Errorf("failed to encrypt initial metadata: %w", err)
	}
	if err := m.store.Put(ctx, storeDomain.MetaRealName, envelope.Encode()); err != nil {
		return fmt.Errorf("failed to persist initial metadata: %w", err)
	}

	if err := m.registry.Init(ctx, salt, verifier, credDomain.LockType(lockType)); err != nil {
		m.recordOperation("init", "error")
		return err
	}

	m.state = vaultDomain.StateLocked
	m.recordOperation("init", "success")
	return nil
}

// checkStaleRotationJournalLocked logs an error-level record if a rotation journal
// survives from a process that crashed mid-rotation. The journal names
// only item ids (spec's rotate.go design note), not secrets, and
// carries no secret this process could use to finish or reverse that
// rotation, so this is diagnostic only: it neither blocks the caller
// nor attempts recovery. Callers must hold m.mu.
func (m *Manager) checkStaleRotationJournalLocked(ctx context.Context) {
	raw, err := m.store.Get(ctx, journalName)
	if err != nil {
		return
	}
	var j rotationJournal
	if err := json.Unmarshal(raw, &j); err != nil {
		m.logger.Error("found unreadable rotation journal", slog.Any("error", err))
		return
	}
	m.logger.Error("found stale rotation journal from a prior interrupted rotation",
		slog.Int("target_count", len(j.TargetIDs)),
		slog.Int("migrated_count", len(j.MigratedID)),
	)
}

// Unlock implements the unlock operation. On a verifier mismatch it
// returns vaultDomain.ErrInvalidCredential; the caller may then trigger
// the external intruder-capture collaborator (spec §9 open question 2),
// which is outside this package's responsibility.
func (m *Manager) Unlock(ctx context.Context, secret []byte) (vaultDomain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == vaultDomain.StateUninitialized || m.state == vaultDomain.StateWiped {
		return 0, vaultDomain.ErrNotInitialized
	}
	if m.state != vaultDomain.StateLocked {
		return 0, vaultDomain.ErrLocked
	}

	salt, err := m.registry.GetSalt(ctx)
	if err != nil {
		return 0, err
	}
	verifier, err := m.kdf.DeriveVerifier(secret, salt)
	if err != nil {
		return 0, fmt.Errorf("failed to derive verifier: %w", err)
	}

	credIdentity, err := m.registry.Identify(ctx, verifier)
	if err != nil {
		return 0, err
	}
	if credIdentity == credDomain.IdentityNone {
		m.recordUnlockOutcome("invalid_credential")
		return 0, vaultDomain.ErrInvalidCredential
	}

	key, err := m.kdf.DeriveKey(secret, salt)
	if err != nil {
		return 0, fmt.Errorf("failed to derive data key: %w", err)
	}
	defer vaultDomain.Zero(key)

	metaName := storeDomain.MetaRealName
	identity := vaultDomain.IdentityReal
	if credIdentity == credDomain.IdentityDecoy {
		metaName = storeDomain.MetaDecoyName
		identity = vaultDomain.IdentityDecoy
	}

	raw, err := m.store.Get(ctx, metaName)
	if err != nil {
		return 0, err
	}
	envelope, err := aeadDomain.Decode(raw)
	if err != nil {
		return 0, err
	}
	codec, err := m.codecFor(key)
	if err != nil {
		return 0, err
	}
	plaintext, err := codec.Decrypt(envelope)
	if err != nil {
		// A corrupt metadata envelope at unlock time must transition to
		// LOCKED and propagate (spec §7) — the manager is already
		// LOCKED here, so there's nothing to unwind.
		return 0, vaultDomain.ErrCrypto
	}
	index, err := decodeIndex(plaintext, m.metadataMaxBytes)
	if err != nil {
		return 0, err
	}

	sessionKey := m.setSessionKey(key)
	m.session = &vaultDomain.Session{DataKey: sessionKey, Identity: identity, Index: index}
	if identity == vaultDomain.IdentityReal {
		m.state = vaultDomain.StateUnlockedReal
		m.recordUnlockOutcome("real")
	} else {
		m.state = vaultDomain.StateUnlockedDecoy
		m.recordUnlockOutcome("decoy")
	}
	m.checkStaleRotationJournalLocked(ctx)
	return identity, nil
}

// Lock implements the lock operation: zero the data key buffer, drop
// the metadata index, and return to LOCKED.
func (m *Manager) Lock(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lockLocked()
}

// lockLocked performs the lock transition; callers must hold m.mu.
func (m *Manager) lockLocked() error {
	if m.state != vaultDomain.StateUnlockedReal && m.state != vaultDomain.StateUnlockedDecoy {
		return vaultDomain.ErrLocked
	}
	if m.session != nil {
		m.session.Wipe()
	}
	m.zeroSessionKey()
	m.session = nil
	m.state = vaultDomain.StateLocked
	m.recordOperation("lock", "success")
	return nil
}

// Reset implements the reset operation: verifies secret identifies the
// real credential, then wipes the object tree and the registry.
func (m *Manager) Reset(ctx context.Context, secret []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == vaultDomain.StateUnlockedDecoy {
		return vaultDomain.ErrDecoyForbidden
	}
	if m.state != vaultDomain.StateLocked {
		return vaultDomain.ErrLocked
	}

	salt, err := m.registry.GetSalt(ctx)
	if err != nil {
		return err
	}
	verifier, err := m.kdf.DeriveVerifier(secret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive verifier: %w", err)
	}
	identity, err := m.registry.Identify(ctx, verifier)
	if err != nil {
		return err
	}
	if identity != credDomain.IdentityReal {
		m.recordOperation("reset", "error")
		return vaultDomain.ErrInvalidCredential
	}

	if err := m.store.WipeTree(ctx); err != nil {
		m.recordOperation("reset", "error")
		return fmt.Errorf("failed to wipe object tree: %w", err)
	}
	if err := m.registry.Wipe(ctx); err != nil {
		m.recordOperation("reset", "error")
		return fmt.Errorf("failed to wipe registry: %w", err)
	}

	m.state = vaultDomain.StateUninitialized
	m.recordOperation("reset", "success")
	return nil
}
