// Package service implements the key-derivation component (C1) described in
// spec §4.1: two pure functions over (secret, salt) — one producing a data
// key suitable for AEAD, the other a domain-separated verifier hash usable
// only for constant-time credential comparison.
package service

import (
	kdfDomain "github.com/rajnish8869/SecureVault-Manager/internal/kdf/domain"
)

// KDF derives a data key and a verifier hash from a user secret and a salt.
//
// Both methods are deterministic: the same (secret, salt) pair always
// yields the same output. DeriveVerifier is domain-separated from
// DeriveKey so that observing one reveals no usable bits of the other —
// callers must never derive a verifier and treat it as a key or vice versa.
type KDF interface {
	// DeriveKey derives a 32-byte data key from secret and salt. This call
	// is intentionally slow and memory-hard (spec §4.1: >=150ms on
	// commodity mobile hardware) to resist offline brute force, especially
	// against a 6-digit PIN's 10^6 candidate space.
	DeriveKey(secret, salt []byte) ([]byte, error)

	// DeriveVerifier derives a 32-byte verifier hash from secret and salt.
	// The verifier is safe to persist and compare but must never be usable
	// to decrypt anything.
	DeriveVerifier(secret, salt []byte) ([]byte, error)

	// Algorithm reports which KDF this instance implements.
	Algorithm() kdfDomain.Algorithm
}
