// Package service implements the object store component (C3): a
// path-keyed byte store scoped to a private application directory, per
// spec §4.3. Two implementations are provided — a filesystem-backed one
// for production and an in-memory one for tests, following the pack's
// preference for injecting a storage-driver interface rather than
// hard-coding one concrete type (mirrored from how the crypto service
// interfaces in the teacher repo let AESGCMCipher and ChaCha20Cipher
// stand in for each other).
package service

import "context"

// Store is the object-store contract. Implementations MUST make Put
// atomic: a failed Put leaves the prior version of logical_name (if any)
// intact, and concurrent Get calls never observe a partially written
// object.
type Store interface {
	// Put writes data under logical_name, replacing any existing
	// object atomically.
	Put(ctx context.Context, logicalName string, data []byte) error

	// Get reads the object at logical_name. Returns
	// storeDomain.ErrNotFound if it does not exist.
	Get(ctx context.Context, logicalName string) ([]byte, error)

	// Delete removes the object at logical_name. Idempotent: deleting
	// a name that does not exist is not an error.
	Delete(ctx context.Context, logicalName string) error

	// List returns every logical name currently stored under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// WipeTree recursively deletes every object in the store.
	WipeTree(ctx context.Context) error
}
