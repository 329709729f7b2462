// Package domain defines the core types for the key-derivation component (C1).
//
// KDF turns a user secret (PIN or password) plus a random salt into two
// independent 32-byte digests: a data key, used for AEAD, and a verifier
// hash, used only to recognize a credential. The two MUST be
// cryptographically unrelated — observing the verifier must reveal no
// usable bits of the data key (spec §4.1, §3 invariant "verifier != data key").
package domain

const (
	// KeySize is the length in bytes of both the derived data key and the
	// derived verifier hash.
	KeySize = 32

	// SaltSize is the length in bytes of the vault salt (spec §3).
	SaltSize = 16
)

// Algorithm identifies which key-derivation function produced a key.
type Algorithm string

const (
	// Argon2id is the preferred, memory-hard KDF (spec §4.1).
	Argon2id Algorithm = "argon2id"

	// PBKDF2 is the minimum-acceptable fallback KDF (spec §4.1).
	PBKDF2 Algorithm = "pbkdf2-hmac-sha256"
)

// Params carries the cost parameters for a KDF. Which fields are
// meaningful depends on Algorithm.
type Params struct {
	Algorithm Algorithm

	// Argon2id parameters.
	Argon2Time   uint32
	Argon2Memory uint32 // KiB
	Argon2Threads uint8

	// PBKDF2 parameters.
	PBKDF2Iterations int
}
