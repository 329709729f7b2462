package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
)

// FileRegistry implements Registry as a single plaintext file sitting
// next to (not inside) the encrypted object-store tree, matching spec
// §4.4's requirement that the registry be readable before any secret is
// known. Every mutation reads-modifies-writes the whole record and
// persists it with the same write-temp-then-rename discipline as the
// object store's Put, so a crash mid-write never corrupts the record an
// unlock depends on.
type FileRegistry struct {
	mu   sync.Mutex
	path string
}

// NewFileRegistry creates a registry backed by the file at path. The
// parent directory is created if necessary; the file itself is created
// lazily by the first Init.
func NewFileRegistry(path string) (*FileRegistry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	return &FileRegistry{path: path}, nil
}

func (r *FileRegistry) load() (credDomain.AuthRecord, bool, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return credDomain.AuthRecord{}, false, nil
		}
		return credDomain.AuthRecord{}, false, fmt.Errorf("failed to read registry: %w", err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return credDomain.AuthRecord{}, false, err
	}
	return rec, true, nil
}

// save atomically persists rec, following the same temp-file-then-
// rename pattern as store.FilesystemStore.Put.
func (r *FileRegistry) save(rec credDomain.AuthRecord) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".tmp-registry-*")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpName := tmp.Name()
	succeeded := false
	defer func() {
		if !succeeded {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(encodeRecord(rec)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp registry file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp registry file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set registry file permissions: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to rename registry into place: %w", err)
	}
	succeeded = true
	return nil
}

// IsInitialized implements Registry.
func (r *FileRegistry) IsInitialized(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok, err := r.load()
	return ok, err
}

// Init implements Registry.
func (r *FileRegistry) Init(ctx context.Context, salt, verifierReal []byte, lockType credDomain.LockType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok, err := r.load()
	if err != nil {
		return err
	}
	if ok {
		return credDomain.ErrAlreadyInitialized
	}

	return r.save(credDomain.AuthRecord{
		Salt:         salt,
		VerifierReal: verifierReal,
		LockType:     lockType,
	})
}

// Identify implements Registry using constant-time comparison against
// both stored verifiers, per spec §4.4 and the timing-indistinguishability
// requirement of spec §7.
func (r *FileRegistry) Identify(ctx context.Context, candidate []byte) (credDomain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return credDomain.IdentityNone, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return credDomain.IdentityNone, err
	}
	if !ok {
		return credDomain.IdentityNone, credDomain.ErrNotInitialized
	}

	matchesReal := constantTimeEqual(candidate, rec.VerifierReal)
	matchesDecoy := rec.HasDecoy() && constantTimeEqual(candidate, rec.VerifierDecoy)

	switch {
	case matchesReal:
		return credDomain.IdentityReal, nil
	case matchesDecoy:
		return credDomain.IdentityDecoy, nil
	default:
		return credDomain.IdentityNone, nil
	}
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GetSalt implements Registry.
func (r *FileRegistry) GetSalt(ctx context.Context) ([]byte, error) {
	rec, err := r.requireRecord(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Salt, nil
}

// GetLockType implements Registry.
func (r *FileRegistry) GetLockType(ctx context.Context) (credDomain.LockType, error) {
	rec, err := r.requireRecord(ctx)
	if err != nil {
		return "", err
	}
	return rec.LockType, nil
}

// SetDecoy implements Registry.
func (r *FileRegistry) SetDecoy(ctx context.Context, verifierDecoy []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return err
	}
	if !ok {
		return credDomain.ErrNotInitialized
	}
	if constantTimeEqual(verifierDecoy, rec.VerifierReal) {
		return credDomain.ErrConstraintViolated
	}
	rec.VerifierDecoy = verifierDecoy
	return r.save(rec)
}

// ClearDecoy implements Registry.
func (r *FileRegistry) ClearDecoy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return err
	}
	if !ok {
		return credDomain.ErrNotInitialized
	}
	rec.VerifierDecoy = nil
	return r.save(rec)
}

// Rotate implements Registry. It also clears the decoy verifier: once
// the salt changes, the old decoy secret can no longer derive any
// reachable key (spec §4.5 step 6).
func (r *FileRegistry) Rotate(ctx context.Context, newSalt, newVerifierReal []byte, newLockType credDomain.LockType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok, err := r.load()
	if err != nil {
		return err
	}
	if !ok {
		return credDomain.ErrNotInitialized
	}

	return r.save(credDomain.AuthRecord{
		Salt:         newSalt,
		VerifierReal: newVerifierReal,
		LockType:     newLockType,
	})
}

// Wipe implements Registry.
func (r *FileRegistry) Wipe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to wipe registry: %w", err)
	}
	return nil
}

// GetBiometricEnabled implements Registry.
func (r *FileRegistry) GetBiometricEnabled(ctx context.Context) (bool, error) {
	rec, err := r.requireRecord(ctx)
	if err != nil {
		return false, err
	}
	return rec.BiometricEnabled, nil
}

// SetBiometricEnabled implements Registry.
func (r *FileRegistry) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return err
	}
	if !ok {
		return credDomain.ErrNotInitialized
	}
	rec.BiometricEnabled = enabled
	return r.save(rec)
}

// GetIntruderSettings implements Registry.
func (r *FileRegistry) GetIntruderSettings(ctx context.Context) ([]byte, error) {
	rec, err := r.requireRecord(ctx)
	if err != nil {
		return nil, err
	}
	return rec.IntruderSettings, nil
}

// SetIntruderSettings implements Registry.
func (r *FileRegistry) SetIntruderSettings(ctx context.Context, settings []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return err
	}
	if !ok {
		return credDomain.ErrNotInitialized
	}
	rec.IntruderSettings = settings
	return r.save(rec)
}

func (r *FileRegistry) requireRecord(ctx context.Context) (credDomain.AuthRecord, error) {
	if err := ctx.Err(); err != nil {
		return credDomain.AuthRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok, err := r.load()
	if err != nil {
		return credDomain.AuthRecord{}, err
	}
	if !ok {
		return credDomain.AuthRecord{}, credDomain.ErrNotInitialized
	}
	return rec, nil
}
