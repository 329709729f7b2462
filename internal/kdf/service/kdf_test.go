package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kdfDomain "github.com/rajnish8869/SecureVault-Manager/internal/kdf/domain"
)

func testSalt(t *testing.T) []byte {
	t.Helper()
	salt := make([]byte, kdfDomain.SaltSize)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	return salt
}

func TestArgon2idKDF_DeterministicAndSeparated(t *testing.T) {
	kdf, err := NewArgon2idKDF(3, 64*1024, 2)
	require.NoError(t, err)

	salt := testSalt(t)
	secret := []byte("correct horse battery staple")

	key1, err := kdf.DeriveKey(secret, salt)
	require.NoError(t, err)
	key2, err := kdf.DeriveKey(secret, salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2, "DeriveKey must be deterministic")

	verifier, err := kdf.DeriveVerifier(secret, salt)
	require.NoError(t, err)
	assert.Len(t, verifier, kdfDomain.KeySize)
	assert.False(t, bytes.Equal(key1, verifier), "verifier must not equal the data key")
}

func TestArgon2idKDF_RejectsWeakParams(t *testing.T) {
	_, err := NewArgon2idKDF(1, 1024, 1)
	assert.ErrorIs(t, err, kdfDomain.ErrWeakParams)
}

func TestPBKDF2KDF_DeterministicAndSeparated(t *testing.T) {
	kdf, err := NewPBKDF2KDF(100_000)
	require.NoError(t, err)

	salt := testSalt(t)
	secret := []byte("000000")

	key1, err := kdf.DeriveKey(secret, salt)
	require.NoError(t, err)
	key2, err := kdf.DeriveKey(secret, salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	verifier, err := kdf.DeriveVerifier(secret, salt)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(key1, verifier))
}

func TestPBKDF2KDF_RejectsWeakParams(t *testing.T) {
	_, err := NewPBKDF2KDF(100)
	assert.ErrorIs(t, err, kdfDomain.ErrWeakParams)
}

func TestDifferentSecretsProduceDifferentKeys(t *testing.T) {
	kdf, err := NewPBKDF2KDF(100_000)
	require.NoError(t, err)

	salt := testSalt(t)
	keyA, err := kdf.DeriveKey([]byte("000000"), salt)
	require.NoError(t, err)
	keyB, err := kdf.DeriveKey([]byte("111111"), salt)
	require.NoError(t, err)

	assert.NotEqual(t, keyA, keyB)
}

func TestDeriveVerifierSharedAcrossAlgorithms(t *testing.T) {
	argon2kdf, err := NewArgon2idKDF(3, 64*1024, 2)
	require.NoError(t, err)
	pbkdf2kdf, err := NewPBKDF2KDF(100_000)
	require.NoError(t, err)

	salt := testSalt(t)
	secret := []byte("shared secret")

	v1, err := argon2kdf.DeriveVerifier(secret, salt)
	require.NoError(t, err)
	v2, err := pbkdf2kdf.DeriveVerifier(secret, salt)
	require.NoError(t, err)

	assert.Equal(t, v1, v2, "verifier derivation is independent of the data-key algorithm")
}

func TestRejectsEmptySecretAndBadSalt(t *testing.T) {
	kdf, err := NewPBKDF2KDF(100_000)
	require.NoError(t, err)

	_, err = kdf.DeriveKey(nil, testSalt(t))
	assert.ErrorIs(t, err, kdfDomain.ErrEmptySecret)

	_, err = kdf.DeriveKey([]byte("x"), []byte("too-short"))
	assert.ErrorIs(t, err, kdfDomain.ErrInvalidSaltSize)
}
