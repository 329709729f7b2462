package domain

import (
	"github.com/rajnish8869/SecureVault-Manager/internal/errors"
)

// Key-derivation parameter errors. Runtime failure here means programmer
// error (spec §4.1: "Parameter selection is fixed at compile/config time;
// runtime failure means programmer error") — these are returned rather
// than panicked so callers at the config-loading boundary can fail fast
// with a clear message instead of a stack trace reaching a user.
var (
	// ErrUnsupportedAlgorithm indicates an unknown KDF algorithm name.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported kdf algorithm")

	// ErrInvalidSaltSize indicates the salt is not domain.SaltSize bytes.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrEmptySecret indicates an empty secret was passed to a KDF call.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "empty secret")

	// ErrWeakParams indicates a configured cost parameter falls below the
	// spec §4.1 minimums (e.g. Argon2 memory < 64 MiB, PBKDF2 iterations
	// < 100000).
	ErrWeakParams = errors.Wrap(errors.ErrInvalidInput, "kdf parameters below minimum security floor")
)
