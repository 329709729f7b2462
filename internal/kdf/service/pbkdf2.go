package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	kdfDomain "github.com/rajnish8869/SecureVault-Manager/internal/kdf/domain"
)

// minPBKDF2Iterations is the spec §4.1 floor: "PBKDF2-HMAC-SHA256 with
// >=100000 iterations is the minimum acceptable design".
const minPBKDF2Iterations = 100_000

// PBKDF2KDF implements KDF using PBKDF2-HMAC-SHA256, the minimum
// acceptable fallback named in spec §4.1 — used on platforms where
// Argon2id's memory requirement is impractical.
type PBKDF2KDF struct {
	iterations int
}

// NewPBKDF2KDF creates a PBKDF2-backed KDF. Returns kdfDomain.ErrWeakParams
// if iterations is below the spec §4.1 minimum.
func NewPBKDF2KDF(iterations int) (*PBKDF2KDF, error) {
	if iterations < minPBKDF2Iterations {
		return nil, kdfDomain.ErrWeakParams
	}
	return &PBKDF2KDF{iterations: iterations}, nil
}

// DeriveKey derives the 32-byte data key via PBKDF2-HMAC-SHA256.
func (p *PBKDF2KDF) DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, kdfDomain.ErrEmptySecret
	}
	if len(salt) != kdfDomain.SaltSize {
		return nil, kdfDomain.ErrInvalidSaltSize
	}
	return pbkdf2.Key(secret, salt, p.iterations, kdfDomain.KeySize, sha256.New), nil
}

// DeriveVerifier derives the domain-separated verifier hash, shared
// across both KDF implementations so credential records are portable
// regardless of which algorithm produced the data key.
func (p *PBKDF2KDF) DeriveVerifier(secret, salt []byte) ([]byte, error) {
	return deriveVerifier(secret, salt)
}

// Algorithm reports kdfDomain.PBKDF2.
func (p *PBKDF2KDF) Algorithm() kdfDomain.Algorithm {
	return kdfDomain.PBKDF2
}
