package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
)

func randomAESKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, aeadDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewAESGCMCodec(t *testing.T) {
	t.Run("valid key size", func(t *testing.T) {
		codec, err := NewAESGCMCodec(randomAESKey(t))
		assert.NoError(t, err)
		assert.NotNil(t, codec)
	})

	t.Run("invalid key size", func(t *testing.T) {
		codec, err := NewAESGCMCodec(make([]byte, 16))
		assert.ErrorIs(t, err, aeadDomain.ErrInvalidKeySize)
		assert.Nil(t, codec)
	})
}

// TestAESGCM_RoundTripAndDistinctness covers spec §8 property 2:
// encrypt then decrypt returns the original plaintext, and two
// encryptions of the same plaintext under the same key produce
// different ciphertexts (fresh nonce per call).
func TestAESGCM_RoundTripAndDistinctness(t *testing.T) {
	codec, err := NewAESGCMCodec(randomAESKey(t))
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

func TestAESGCM_RoundTripEmptyPlaintext(t *testing.T) {
	codec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte{})
	require.NoError(t, err)
	plaintext, err := codec.Decrypt(envelope)
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

// TestAESGCM_WrongKeyFails covers spec §8 property 3: decrypting under
// a different key than the one used to encrypt must fail.
func TestAESGCM_WrongKeyFails(t *testing.T) {
	encodeCodec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)
	decodeCodec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)

	envelope, err := encodeCodec.Encrypt([]byte("hello"))
	require.NoError(t, err)

	_, err = decodeCodec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

// TestAESGCM_TamperedCiphertextFailsAuth covers spec §8 property 4: a
// single flipped bit anywhere in the ciphertext must surface as
// ErrAuthFailed, never as silently-wrong plaintext.
func TestAESGCM_TamperedCiphertextFailsAuth(t *testing.T) {
	codec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello, vault"))
	require.NoError(t, err)

	tampered := append([]byte(nil), envelope.Ciphertext...)
	tampered[len(tampered)-1] ^= 0xFF
	envelope.Ciphertext = tampered

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

func TestAESGCM_TamperedNonceFailsAuth(t *testing.T) {
	codec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello, vault"))
	require.NoError(t, err)

	tampered := append([]byte(nil), envelope.Nonce...)
	tampered[0] ^= 0xFF
	envelope.Nonce = tampered

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrAuthFailed)
}

func TestAESGCM_UnsupportedVersionRejected(t *testing.T) {
	codec, err := NewAESGCMCodec(randomAESKey(t))
	require.NoError(t, err)

	envelope, err := codec.Encrypt([]byte("hello"))
	require.NoError(t, err)
	envelope.Version = 0x02

	_, err = codec.Decrypt(envelope)
	assert.ErrorIs(t, err, aeadDomain.ErrUnsupportedVersion)
}
