package service

import (
	"context"
	"sync"

	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
)

// MemoryRegistry implements Registry in process memory, for unit tests
// that don't want a filesystem dependency.
type MemoryRegistry struct {
	mu   sync.Mutex
	rec  credDomain.AuthRecord
	init bool
}

// NewMemoryRegistry creates an uninitialized in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

func (r *MemoryRegistry) IsInitialized(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.init, nil
}

func (r *MemoryRegistry) Init(ctx context.Context, salt, verifierReal []byte, lockType credDomain.LockType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.init {
		return credDomain.ErrAlreadyInitialized
	}
	r.rec = credDomain.AuthRecord{Salt: salt, VerifierReal: verifierReal, LockType: lockType}
	r.init = true
	return nil
}

func (r *MemoryRegistry) Identify(ctx context.Context, candidate []byte) (credDomain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return credDomain.IdentityNone, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.IdentityNone, credDomain.ErrNotInitialized
	}
	switch {
	case constantTimeEqual(candidate, r.rec.VerifierReal):
		return credDomain.IdentityReal, nil
	case r.rec.HasDecoy() && constantTimeEqual(candidate, r.rec.VerifierDecoy):
		return credDomain.IdentityDecoy, nil
	default:
		return credDomain.IdentityNone, nil
	}
}

func (r *MemoryRegistry) GetSalt(ctx context.Context) ([]byte, error) {
	rec, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Salt, nil
}

func (r *MemoryRegistry) GetLockType(ctx context.Context) (credDomain.LockType, error) {
	rec, err := r.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return rec.LockType, nil
}

func (r *MemoryRegistry) SetDecoy(ctx context.Context, verifierDecoy []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.ErrNotInitialized
	}
	if constantTimeEqual(verifierDecoy, r.rec.VerifierReal) {
		return credDomain.ErrConstraintViolated
	}
	r.rec.VerifierDecoy = verifierDecoy
	return nil
}

func (r *MemoryRegistry) ClearDecoy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.ErrNotInitialized
	}
	r.rec.VerifierDecoy = nil
	return nil
}

func (r *MemoryRegistry) Rotate(ctx context.Context, newSalt, newVerifierReal []byte, newLockType credDomain.LockType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.ErrNotInitialized
	}
	r.rec = credDomain.AuthRecord{Salt: newSalt, VerifierReal: newVerifierReal, LockType: newLockType}
	return nil
}

func (r *MemoryRegistry) Wipe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec = credDomain.AuthRecord{}
	r.init = false
	return nil
}

func (r *MemoryRegistry) GetBiometricEnabled(ctx context.Context) (bool, error) {
	rec, err := r.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return rec.BiometricEnabled, nil
}

func (r *MemoryRegistry) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.ErrNotInitialized
	}
	r.rec.BiometricEnabled = enabled
	return nil
}

func (r *MemoryRegistry) GetIntruderSettings(ctx context.Context) ([]byte, error) {
	rec, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return rec.IntruderSettings, nil
}

func (r *MemoryRegistry) SetIntruderSettings(ctx context.Context, settings []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.ErrNotInitialized
	}
	r.rec.IntruderSettings = settings
	return nil
}

func (r *MemoryRegistry) snapshot(ctx context.Context) (credDomain.AuthRecord, error) {
	if err := ctx.Err(); err != nil {
		return credDomain.AuthRecord{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.init {
		return credDomain.AuthRecord{}, credDomain.ErrNotInitialized
	}
	return r.rec, nil
}
