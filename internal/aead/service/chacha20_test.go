package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

func randomChaChaKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, aeadDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewChaCha20Codec(t *testing.T) {
	t.Run("valid key size", func(t *testing.T) {
		codec, err := NewChaCha20Codec(randomChaChaKey(t))
		assert.NoError(t, err)
		assert.NotNil(t, codec)
	})

	t.Run("invalid key size", func(t *testing.T) {
		codec, err := NewChaCha20Codec(make([]byte, 16))
		assert.ErrorIs(t, err, aeadDomain.ErrInvalidKeySize)
		assert.Nil(t, codec)
	})
}

// TestChaCha20_RoundTripAndDistinctness covers spec §8 property 2 for
// the ChaCha20-Poly1305 algorithm choice.
func TestChaCha20_RoundTripAndDistinctness(t *testing.T) {
	codec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	plaintext := []byte("correct horse battery staple")

	envelopeA, err := codec.Encrypt(plaintext)
	require.NoError(t, err)
	envelopeB, err := codec.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, envelopeA.Nonce, envelopeB.Nonce)
	assert.NotEqual(t, envelopeA.Ciphertext, envelopeB.Ciphertext)

	gotA, err := codec.Decrypt(envelopeA)
	require.NoError(t, err)
	assert.Equal(t, plaintext, gotA)

	gotB, err := codec.Decrypt(envelopeB)
	require.NoError(t, err)
	assert.Equal(t, plaintext, gotB)
}

func TestChaCha20_RoundTripEmptyPlaintext(t *testing.T) {
	codec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte{})
	require.NoError(t, err)
	plaintext, err := codec.Decrypt(envelope)
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

// TestChaCha20_WrongKeyFails covers spec §8 property 3.
func TestChaCha20_WrongKeyFails(t *testing.T) {
	encodeCodec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)
	decodeCodec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	envelope, err := encodeCodec.Encrypt([]byte("hello"))
	require.NoError(t, err)

	_, err = decodeCodec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

// TestChaCha20_TamperedCiphertextFailsAuth covers spec §8 property 4.
func TestChaCha20_TamperedCiphertextFailsAuth(t *testing.T) {
	codec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello, vault"))
	require.NoError(t, err)

	tampered := append([]byte(nil), envelope.Ciphertext...)
	tampered[len(tampered)-1] ^= 0xFF
	envelope.Ciphertext = tampered

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

func TestChaCha20_TamperedNonceFailsAuth(t *testing.T) {
	codec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello, vault"))
	require.NoError(t, err)

	tampered := append([]byte(nil), envelope.Nonce...)
	tampered[0] ^= 0xFF
	envelope.Nonce = tampered

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

func TestChaCha20_UnsupportedVersionRejected(t *testing.T) {
	codec, err := NewChaCha20Codec(randomChaChaKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello"))
	require.NoError(t, err)
	envelope.Version = 0x02

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrUnsupportedVersion)
}
