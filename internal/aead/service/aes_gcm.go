package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

// aesGCMCipher implements rawAEAD using AES-256-GCM.
type aesGCMCipher struct {
	aead cipher.AEAD
}

func newAESGCM(key []byte) (*aesGCMCipher, error) {
	if len(key) != aeadDomain.KeySize {
		return nil, aeadDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aesGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM with a fresh CSPRNG nonce.
// A fresh key is derived for every credential generation (init, rotate,
// set-decoy), so nonce reuse under a fixed key is not a practical risk,
// but the nonce is still drawn from crypto/rand for every single call
// (spec §4.2: "MUST NOT reuse a (key, nonce) pair").
func (a *aesGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using AES-256-GCM with the provided nonce and AAD.
func (a *aesGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// NewAESGCMCodec creates a Codec backed by AES-256-GCM.
func NewAESGCMCodec(key []byte) (Codec, error) {
	aead, err := newAESGCM(key)
	if err != nil {
		return nil, err
	}
	return &codec{aead: aead}, nil
}
