// Package service implements the credential registry component (C4)
// described in spec §4.4: a small persisted auth record, kept outside
// the encrypted object tree so it can be read before any secret is
// known.
package service

import (
	"context"

	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
)

// Registry is the credential registry contract.
type Registry interface {
	// IsInitialized reports whether a real verifier has been recorded.
	IsInitialized(ctx context.Context) (bool, error)

	// Init writes the first auth record. Returns
	// credDomain.ErrAlreadyInitialized if one already exists.
	Init(ctx context.Context, salt, verifierReal []byte, lockType credDomain.LockType) error

	// Identify compares candidate against the stored verifiers in
	// constant time and reports which identity, if any, it matches.
	Identify(ctx context.Context, candidate []byte) (credDomain.Identity, error)

	// GetSalt returns the shared salt. Fails with
	// credDomain.ErrNotInitialized before init.
	GetSalt(ctx context.Context) ([]byte, error)

	// GetLockType returns the advisory secret-shape tag.
	GetLockType(ctx context.Context) (credDomain.LockType, error)

	// SetDecoy records a decoy verifier. Returns
	// credDomain.ErrConstraintViolated if it equals the real verifier.
	SetDecoy(ctx context.Context, verifierDecoy []byte) error

	// ClearDecoy removes the decoy verifier, if any.
	ClearDecoy(ctx context.Context) error

	// Rotate replaces the salt, real verifier, and lock type in one
	// atomic write, and also clears the decoy verifier (spec §4.5
	// step 6: the old decoy is unreachable once the salt changes).
	Rotate(ctx context.Context, newSalt, newVerifierReal []byte, newLockType credDomain.LockType) error

	// Wipe erases the entire auth record.
	Wipe(ctx context.Context) error

	// GetBiometricEnabled and SetBiometricEnabled pass through the
	// opaque biometric-enrollment flag for the external broker.
	GetBiometricEnabled(ctx context.Context) (bool, error)
	SetBiometricEnabled(ctx context.Context, enabled bool) error

	// GetIntruderSettings and SetIntruderSettings pass through the
	// opaque blob consumed by the external intruder-capture subsystem.
	GetIntruderSettings(ctx context.Context) ([]byte, error)
	SetIntruderSettings(ctx context.Context, settings []byte) error
}
