package service

import (
	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

// Algorithm identifies which AEAD construction a Codec uses.
type Algorithm string

const (
	// AESGCM selects AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20Poly1305 selects ChaCha20-Poly1305.
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// NewCodec is the factory spec §4.2 implies: given a 32-byte key and an
// algorithm choice, produce a ready-to-use Codec. Mirrors the
// AEADManager.CreateCipher factory pattern, collapsed to a function since
// the codec itself holds no other state.
func NewCodec(key []byte, alg Algorithm) (Codec, error) {
	switch alg {
	case AESGCM:
		return NewAESGCMCodec(key)
	case ChaCha20Poly1305:
		return NewChaCha20Codec(key)
	default:
		return nil, aeadDomain.ErrUnsupportedAlgorithm
	}
}
