// Package service implements the AEAD codec component (C2) described in
// spec §4.2: encrypt/decrypt a byte payload with a random nonce under a
// 32-byte key, producing the self-contained envelope defined in
// internal/aead/domain.
package service

import (
	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

// rawAEAD is the minimal cipher.AEAD-shaped interface both algorithm
// implementations wrap. Keeping it unexported lets aesGCMCipher and
// chacha20Cipher share Codec without exposing crypto/cipher to callers.
type rawAEAD interface {
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Codec is the public interface for the AEAD codec component. Encrypt
// produces a self-contained envelope; Decrypt recovers the plaintext or
// returns aeadDomain.ErrAuthFailed.
type Codec interface {
	// Encrypt allocates and returns a fresh envelope (spec §4.2: "No
	// in-place mutation: encryption allocates a new buffer").
	Encrypt(plaintext []byte) (aeadDomain.Envelope, error)

	// Decrypt verifies and decrypts an envelope. Returns
	// aeadDomain.ErrUnsupportedVersion on version mismatch and
	// aeadDomain.ErrAuthFailed on tag mismatch.
	Decrypt(envelope aeadDomain.Envelope) ([]byte, error)
}

// codec implements Codec over any rawAEAD implementation (AES-GCM or
// ChaCha20-Poly1305) — the two ciphers differ only in how they construct
// their underlying cipher.AEAD, so the envelope logic is written once.
type codec struct {
	aead rawAEAD
}

// Encrypt implements Codec.
func (c *codec) Encrypt(plaintext []byte) (aeadDomain.Envelope, error) {
	aad := aeadDomain.AssociatedData(aeadDomain.Version1)
	ciphertext, nonce, err := c.aead.Encrypt(plaintext, aad)
	if err != nil {
		return aeadDomain.Envelope{}, err
	}
	return aeadDomain.Envelope{
		Version:    aeadDomain.Version1,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt implements Codec.
func (c *codec) Decrypt(envelope aeadDomain.Envelope) ([]byte, error) {
	if envelope.Version != aeadDomain.Version1 {
		return nil, aeadDomain.ErrUnsupportedVersion
	}
	aad := aeadDomain.AssociatedData(envelope.Version)
	plaintext, err := c.aead.Decrypt(envelope.Ciphertext, envelope.Nonce, aad)
	if err != nil {
		return nil, aeadDomain.ErrAuthFailed
	}
	return plaintext, nil
}
