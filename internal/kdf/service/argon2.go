package service

import (
	"golang.org/x/crypto/argon2"

	kdfDomain "github.com/rajnish8869/SecureVault-Manager/internal/kdf/domain"
)

// minArgon2MemoryKiB and minArgon2Time are the spec §4.1 floor: "Argon2id
// with >=64 MiB memory and >=3 passes".
const (
	minArgon2MemoryKiB = 64 * 1024
	minArgon2Time      = 3
)

// Argon2idKDF implements KDF using Argon2id, the preferred memory-hard
// construction named in spec §4.1.
type Argon2idKDF struct {
	time    uint32
	memory  uint32 // KiB
	threads uint8
}

// NewArgon2idKDF creates an Argon2id-backed KDF. Returns
// kdfDomain.ErrWeakParams if the supplied cost parameters fall below the
// spec §4.1 minimum security floor.
func NewArgon2idKDF(time, memoryKiB uint32, threads uint8) (*Argon2idKDF, error) {
	if memoryKiB < minArgon2MemoryKiB || time < minArgon2Time {
		return nil, kdfDomain.ErrWeakParams
	}
	return &Argon2idKDF{time: time, memory: memoryKiB, threads: threads}, nil
}

// DeriveKey derives the 32-byte data key via Argon2id.
func (a *Argon2idKDF) DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, kdfDomain.ErrEmptySecret
	}
	if len(salt) != kdfDomain.SaltSize {
		return nil, kdfDomain.ErrInvalidSaltSize
	}
	return argon2.IDKey(secret, salt, a.time, a.memory, a.threads, kdfDomain.KeySize), nil
}

// DeriveVerifier derives the domain-separated verifier hash. It is
// deliberately independent of Argon2id's cost parameters: the verifier
// only needs to be a fast, collision-resistant presence check, not a
// brute-force deterrent (that job belongs entirely to DeriveKey).
func (a *Argon2idKDF) DeriveVerifier(secret, salt []byte) ([]byte, error) {
	return deriveVerifier(secret, salt)
}

// Algorithm reports kdfDomain.Argon2id.
func (a *Argon2idKDF) Algorithm() kdfDomain.Algorithm {
	return kdfDomain.Argon2id
}
