package service

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

// chacha20Cipher implements rawAEAD using ChaCha20-Poly1305, the
// Poly1305 AEAD alternative named in spec §4.2.
type chacha20Cipher struct {
	aead interface {
		NonceSize() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

func newChaCha20(key []byte) (*chacha20Cipher, error) {
	if len(key) != aeadDomain.KeySize {
		return nil, aeadDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &chacha20Cipher{aead: aead}, nil
}

// Encrypt encrypts plaintext using ChaCha20-Poly1305 with a fresh CSPRNG nonce.
func (c *chacha20Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using ChaCha20-Poly1305 with the provided nonce and AAD.
func (c *chacha20Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// NewChaCha20Codec creates a Codec backed by ChaCha20-Poly1305.
func NewChaCha20Codec(key []byte) (Codec, error) {
	aead, err := newChaCha20(key)
	if err != nil {
		return nil, err
	}
	return &codec{aead: aead}, nil
}
