package biometric

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/hashivault"   // registers the "hashivault://" Keeper URL scheme
	_ "gocloud.dev/secrets/localsecrets" // registers the "base64key://" Keeper URL scheme
)

// KeeperSealer answers spec §9 open question 3 — "This requires the
// secret to be stored somewhere the broker can unseal" — without the
// core prescribing a specific keystore. It wraps a gocloud.dev/secrets
// Keeper, which can be backed by an OS/HSM keystore in production or
// HashiCorp Vault's transit engine via the hashivault driver; the
// vault core never sees which.
type KeeperSealer struct {
	keeper *secrets.Keeper
}

// OpenKeeperSealer opens a Keeper from a gocloud.dev secrets URL, e.g.
// "hashivault://my-transit-key" or "base64key://" for local testing.
func OpenKeeperSealer(ctx context.Context, keeperURL string) (*KeeperSealer, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret keeper %q: %w", keeperURL, err)
	}
	return &KeeperSealer{keeper: keeper}, nil
}

// Seal encrypts secret so it can be cached on disk for the biometric
// broker to hand back later. The caller is responsible for zeroing
// secret after sealing.
func (k *KeeperSealer) Seal(ctx context.Context, secret []byte) ([]byte, error) {
	sealed, err := k.keeper.Encrypt(ctx, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to seal secret: %w", err)
	}
	return sealed, nil
}

// Unseal recovers a secret previously sealed by Seal. The caller owns
// the returned buffer and must zero it on release, same as any other
// secret that passes through the vault core.
func (k *KeeperSealer) Unseal(ctx context.Context, sealed []byte) ([]byte, error) {
	secret, err := k.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal secret: %w", err)
	}
	return secret, nil
}

// Close releases the underlying Keeper's resources.
func (k *KeeperSealer) Close() error {
	return k.keeper.Close()
}
