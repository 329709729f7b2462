package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	kdfDomain "github.com/rajnish8869/SecureVault-Manager/internal/kdf/domain"
)

// verifierInfo is the HKDF "info" label that domain-separates the
// verifier hash from any other digest derived from (secret, salt). It is
// deliberately distinct from any label used for key derivation so the
// two outputs are cryptographically independent (spec §4.1).
var verifierInfo = []byte("SecureVault-Verifier-v1")

// deriveVerifier computes a verifier hash independent of the data key by
// running HKDF-Expand over a fresh HKDF-Extract of (secret, salt), keyed
// by a distinct info label. It is HKDF-SHA256, not PBKDF2: the
// distinct-info-label separation without a second slow derivation. It
// is built once and shared by both KDF implementations so the verifier is always
// computed the same way regardless of which DeriveKey algorithm is active.
func deriveVerifier(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, kdfDomain.ErrEmptySecret
	}
	if len(salt) != kdfDomain.SaltSize {
		return nil, kdfDomain.ErrInvalidSaltSize
	}

	reader := hkdf.New(sha256.New, secret, salt, verifierInfo)
	verifier := make([]byte, kdfDomain.KeySize)
	if _, err := io.ReadFull(reader, verifier); err != nil {
		return nil, err
	}
	return verifier, nil
}
