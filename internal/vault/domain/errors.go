package domain

import (
	"github.com/rajnish8869/SecureVault-Manager/internal/errors"
)

// Error taxonomy, spec §7.
var (
	// ErrNotInitialized: operation requires a prior init.
	ErrNotInitialized = errors.New("vault not initialized")

	// ErrAlreadyInitialized: init called on an initialized vault.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrInvalidCredential: secret matched neither verifier. Raised only
	// by unlock, rotate, reset.
	ErrInvalidCredential = errors.Wrap(errors.ErrUnauthorized, "invalid credential")

	// ErrLocked: operation requires an unlocked session.
	ErrLocked = errors.ErrLocked

	// ErrDecoyForbidden: operation is not allowed from UNLOCKED_DECOY.
	ErrDecoyForbidden = errors.Wrap(errors.ErrForbidden, "operation forbidden in decoy session")

	// ErrConstraintViolated: a decoded metadata index exceeds its size
	// bound. A secret-shape failure is reported by internal/validation
	// as a wrapped errors.ErrInvalidInput, and a decoy verifier equal to
	// the real one surfaces as the registry's credDomain
	// ErrConstraintViolated; all three match errors.ErrInvalidInput.
	ErrConstraintViolated = errors.Wrap(errors.ErrInvalidInput, "constraint violated")

	// ErrItemNotFound: object-store miss for a requested item id.
	ErrItemNotFound = errors.ErrNotFound

	// ErrCrypto: AEAD tag mismatch, treated as non-recoverable for that
	// object but not for the session.
	ErrCrypto = errors.Wrap(errors.ErrInvalidInput, "crypto error")

	// ErrCancelled: the caller aborted a long-running operation.
	ErrCancelled = errors.ErrCancelled
)
