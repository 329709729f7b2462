package domain

import (
	"github.com/rajnish8869/SecureVault-Manager/internal/errors"
)

var (
	// ErrNotInitialized indicates an operation requires a prior init.
	ErrNotInitialized = errors.New("vault not initialized")

	// ErrAlreadyInitialized indicates init was called on a registry
	// that already has a real verifier on file.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrConstraintViolated indicates a registry-level invariant was
	// about to be broken, e.g. verifier_decoy == verifier_real.
	ErrConstraintViolated = errors.Wrap(errors.ErrInvalidInput, "registry constraint violated")

	// ErrCorrupt indicates the on-disk registry file could not be
	// parsed as the expected key/value format.
	ErrCorrupt = errors.New("credential registry is corrupt")
)
