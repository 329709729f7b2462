package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
	"github.com/rajnish8869/SecureVault-Manager/internal/credential/service"
)

func registryFactories(t *testing.T) map[string]service.Registry {
	t.Helper()
	fileReg, err := service.NewFileRegistry(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	return map[string]service.Registry{
		"file":   fileReg,
		"memory": service.NewMemoryRegistry(),
	}
}

func TestRegistry_InitThenIdentify(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			salt := []byte("0123456789abcdef")
			verifier := []byte("real-verifier-32-bytes-long-xxx")

			ok, err := reg.IsInitialized(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, reg.Init(ctx, salt, verifier, credDomain.LockTypePassword))

			ok, err = reg.IsInitialized(ctx)
			require.NoError(t, err)
			assert.True(t, ok)

			identity, err := reg.Identify(ctx, verifier)
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityReal, identity)

			identity, err = reg.Identify(ctx, []byte("wrong"))
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityNone, identity)
		})
	}
}

func TestRegistry_InitTwiceFails(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, reg.Init(ctx, []byte("salt"), []byte("v1"), credDomain.LockTypePIN))
			err := reg.Init(ctx, []byte("salt"), []byte("v1"), credDomain.LockTypePIN)
			assert.ErrorIs(t, err, credDomain.ErrAlreadyInitialized)
		})
	}
}

func TestRegistry_SetDecoyAndIdentifyBoth(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			realVerifier := []byte("real-verifier")
			decoyVerifier := []byte("decoy-verifier")
			require.NoError(t, reg.Init(ctx, []byte("salt"), realVerifier, credDomain.LockTypePassword))
			require.NoError(t, reg.SetDecoy(ctx, decoyVerifier))

			identity, err := reg.Identify(ctx, realVerifier)
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityReal, identity)

			identity, err = reg.Identify(ctx, decoyVerifier)
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityDecoy, identity)
		})
	}
}

func TestRegistry_SetDecoyEqualToRealIsRejected(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			verifier := []byte("same-verifier")
			require.NoError(t, reg.Init(ctx, []byte("salt"), verifier, credDomain.LockTypePassword))
			err := reg.SetDecoy(ctx, verifier)
			assert.ErrorIs(t, err, credDomain.ErrConstraintViolated)
		})
	}
}

func TestRegistry_RotateClearsDecoy(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, reg.Init(ctx, []byte("salt"), []byte("v1"), credDomain.LockTypePassword))
			require.NoError(t, reg.SetDecoy(ctx, []byte("decoy")))

			require.NoError(t, reg.Rotate(ctx, []byte("new-salt"), []byte("v2"), credDomain.LockTypePIN))

			identity, err := reg.Identify(ctx, []byte("decoy"))
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityNone, identity)

			identity, err = reg.Identify(ctx, []byte("v2"))
			require.NoError(t, err)
			assert.Equal(t, credDomain.IdentityReal, identity)

			lockType, err := reg.GetLockType(ctx)
			require.NoError(t, err)
			assert.Equal(t, credDomain.LockTypePIN, lockType)
		})
	}
}

func TestRegistry_WipeResetsToUninitialized(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, reg.Init(ctx, []byte("salt"), []byte("v1"), credDomain.LockTypePassword))
			require.NoError(t, reg.Wipe(ctx))

			ok, err := reg.IsInitialized(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRegistry_BiometricAndIntruderSettingsRoundTrip(t *testing.T) {
	for name, reg := range registryFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, reg.Init(ctx, []byte("salt"), []byte("v1"), credDomain.LockTypePassword))

			require.NoError(t, reg.SetBiometricEnabled(ctx, true))
			enabled, err := reg.GetBiometricEnabled(ctx)
			require.NoError(t, err)
			assert.True(t, enabled)

			require.NoError(t, reg.SetIntruderSettings(ctx, []byte{0x01, 0x02, 0x03}))
			settings, err := reg.GetIntruderSettings(ctx)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x01, 0x02, 0x03}, settings)
		})
	}
}
