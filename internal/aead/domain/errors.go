package domain

import (
	"github.com/rajnish8869/SecureVault-Manager/internal/errors"
)

// Envelope and AEAD errors.
var (
	// ErrEnvelopeTooShort indicates a byte blob is too small to contain a
	// valid envelope header, nonce, and tag.
	ErrEnvelopeTooShort = errors.Wrap(errors.ErrInvalidInput, "envelope too short")

	// ErrUnsupportedVersion indicates the envelope's version byte is not
	// one this codec understands.
	ErrUnsupportedVersion = errors.Wrap(errors.ErrInvalidInput, "unsupported envelope version")

	// ErrInvalidKeySize indicates an AEAD key is not domain.KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates an unknown AEAD algorithm name was
	// requested from the codec factory.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported aead algorithm")

	// ErrAuthFailed indicates the authentication tag did not verify —
	// either the key is wrong or the envelope was tampered with. Spec §4.2:
	// "Callers MUST treat AuthError as non-recoverable for that blob and
	// MUST NOT log ciphertext or partial plaintext."
	ErrAuthFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")
)
