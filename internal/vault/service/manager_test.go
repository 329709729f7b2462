package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	aeadService "github.com/rajnish8869/SecureVault-Manager/internal/aead/service"
	credService "github.com/rajnish8869/SecureVault-Manager/internal/credential/service"
	kdfService "github.com/rajnish8869/SecureVault-Manager/internal/kdf/service"
	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
	storeService "github.com/rajnish8869/SecureVault-Manager/internal/store/service"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
	"github.com/rajnish8869/SecureVault-Manager/internal/vault/service"
)

func newTestManager(t *testing.T) *service.Manager {
	t.Helper()
	mgr, _ := newTestManagerWithStore(t)
	return mgr
}

func newTestManagerWithStore(t *testing.T) (*service.Manager, storeService.Store) {
	t.Helper()
	kdf, err := kdfService.NewPBKDF2KDF(100_000)
	require.NoError(t, err)

	store := storeService.NewMemoryStore()
	mgr, err := service.NewManager(context.Background(), service.Config{
		KDF:           kdf,
		AEADAlgorithm: aeadService.AESGCM,
		Store:         store,
		Registry:      credService.NewMemoryRegistry(),
		Rotation:      service.RotationConfig{Workers: 2, MaxRetries: 2},
	})
	require.NoError(t, err)
	return mgr, store
}

// TestProperty1_InitThenUnlockIsEmptyReal is spec §8 property 1.
func TestProperty1_InitThenUnlockIsEmptyReal(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")

	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))
	identity, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)

	items, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestScenarioS1_InitImportRelockUnlockRead covers spec §8 scenario S1.
func TestScenarioS1_InitImportRelockUnlockRead(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")

	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)

	item, err := mgr.Import(ctx, []byte("hello"), "greet.txt", "text/plain")
	require.NoError(t, err)
	assert.EqualValues(t, 5, item.Size)
	require.NoError(t, mgr.Lock(ctx))

	identity, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)

	items, err := mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	plaintext, token, err := mgr.Preview(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plaintext)
	mgr.ReleasePreview(ctx, token, plaintext)
}

// TestScenarioS2_WrongSecretThenCorrect covers spec §8 scenario S2.
func TestScenarioS2_WrongSecretThenCorrect(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")
	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))

	_, err := mgr.Unlock(ctx, []byte("wrong"))
	assert.ErrorIs(t, err, vaultDomain.ErrInvalidCredential)

	identity, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)
}

// TestScenarioS3_DecoySeparation covers spec §8 scenario S3.
func TestScenarioS3_DecoySeparation(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	realSecret := []byte("correct horse battery staple")
	decoySecret := []byte("000000")

	require.NoError(t, mgr.Init(ctx, realSecret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, realSecret)
	require.NoError(t, err)
	realItem, err := mgr.Import(ctx, []byte("hello"), "greet.txt", "text/plain")
	require.NoError(t, err)

	require.NoError(t, mgr.SetDecoy(ctx, decoySecret))
	require.NoError(t, mgr.Lock(ctx))

	identity, err := mgr.Unlock(ctx, decoySecret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityDecoy, identity)

	items, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = mgr.Import(ctx, []byte("lie"), "note.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, mgr.Lock(ctx))

	identity, err = mgr.Unlock(ctx, realSecret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)

	items, err = mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, realItem.ID, items[0].ID)
}

// TestScenarioS4_RotatePreservesContent covers spec §8 scenario S4.
func TestScenarioS4_RotatePreservesContent(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	oldSecret := []byte("correct horse battery staple")
	newSecret := []byte("p@ssw0rd-2025")
	decoySecret := []byte("000000")

	require.NoError(t, mgr.Init(ctx, oldSecret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, oldSecret)
	require.NoError(t, err)
	itemX, err := mgr.Import(ctx, []byte("hello"), "greet.txt", "text/plain")
	require.NoError(t, err)
	itemY, err := mgr.Import(ctx, []byte("world"), "w.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, mgr.SetDecoy(ctx, decoySecret))

	require.NoError(t, mgr.Rotate(ctx, oldSecret, newSecret, vaultDomain.LockTypePassword))

	_, err = mgr.Unlock(ctx, oldSecret)
	assert.ErrorIs(t, err, vaultDomain.ErrInvalidCredential)

	_, err = mgr.Unlock(ctx, decoySecret)
	assert.ErrorIs(t, err, vaultDomain.ErrInvalidCredential)

	identity, err := mgr.Unlock(ctx, newSecret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)

	plaintext, tokenX, err := mgr.Preview(ctx, itemX.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), plaintext)
	mgr.ReleasePreview(ctx, tokenX, plaintext)

	plaintext, tokenY, err := mgr.Preview(ctx, itemY.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), plaintext)
	mgr.ReleasePreview(ctx, tokenY, plaintext)
}

// TestScenarioS6_ResetWipesEverything covers spec §8 scenario S6.
func TestScenarioS6_ResetWipesEverything(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")

	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	_, err = mgr.Import(ctx, []byte("hello"), "greet.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, mgr.Lock(ctx))

	require.NoError(t, mgr.Reset(ctx, secret))

	initialized, err := mgr.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)

	_, err = mgr.Unlock(ctx, secret)
	assert.ErrorIs(t, err, vaultDomain.ErrNotInitialized)
}

// TestProperty9_KeyBufferZeroedAfterLock covers spec §8 property 9.
func TestProperty9_KeyBufferZeroedAfterLock(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")

	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	assert.False(t, mgr.DebugKeyBufferZeroed())

	require.NoError(t, mgr.Lock(ctx))
	assert.True(t, mgr.DebugKeyBufferZeroed())
}

// TestProperty7_DecoySessionRejectsPrivilegedOps covers spec §8 property 7.
func TestProperty7_DecoySessionRejectsPrivilegedOps(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr := newTestManager(t)
	ctx := context.Background()
	realSecret := []byte("correct horse battery staple")
	decoySecret := []byte("000000")

	require.NoError(t, mgr.Init(ctx, realSecret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, realSecret)
	require.NoError(t, err)
	require.NoError(t, mgr.SetDecoy(ctx, decoySecret))
	require.NoError(t, mgr.Lock(ctx))

	_, err = mgr.Unlock(ctx, decoySecret)
	require.NoError(t, err)

	assert.ErrorIs(t, mgr.Rotate(ctx, decoySecret, []byte("new"), vaultDomain.LockTypePassword), vaultDomain.ErrDecoyForbidden)
	assert.ErrorIs(t, mgr.SetDecoy(ctx, []byte("another")), vaultDomain.ErrDecoyForbidden)
	assert.ErrorIs(t, mgr.RemoveDecoy(ctx), vaultDomain.ErrDecoyForbidden)
	assert.ErrorIs(t, mgr.Reset(ctx, realSecret), vaultDomain.ErrDecoyForbidden)
}

// TestScenarioS5_TamperedFileDetected covers spec §8 scenario S5: a
// single corrupted file envelope must surface as a CryptoError on that
// item alone, without corrupting the session or hiding the item from
// list.
func TestScenarioS5_TamperedFileDetected(t *testing.T) {
	defer goleak.VerifyNone(t)
	mgr, store := newTestManagerWithStore(t)
	ctx := context.Background()
	secret := []byte("correct horse battery staple")

	require.NoError(t, mgr.Init(ctx, secret, vaultDomain.LockTypePassword))
	_, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	item, err := mgr.Import(ctx, []byte("hello"), "greet.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, mgr.Lock(ctx))

	name := storeDomain.FileName(item.ID)
	raw, err := store.Get(ctx, name)
	require.NoError(t, err)
	tampered := append([]byte(nil), raw...)
	tampered[len(tampered)-1] ^= 0xFF
	require.NoError(t, store.Put(ctx, name, tampered))

	identity, err := mgr.Unlock(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, vaultDomain.IdentityReal, identity)

	items, err := mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	_, _, err = mgr.Preview(ctx, item.ID)
	assert.ErrorIs(t, err, vaultDomain.ErrCrypto)
}
