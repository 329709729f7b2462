package service

import (
	"context"
	"fmt"

	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

// requireUnlockedRealLocked enforces the UNLOCKED_REAL-only operations
// of spec §4.5 (set_decoy, remove_decoy, rotate): a decoy
// session gets DecoyForbidden rather than the generic Locked error, so
// callers can distinguish "wrong state" from "forbidden identity".
func (m *Manager) requireUnlockedRealLocked() error {
	switch m.state {
	case vaultDomain.StateUnlockedReal:
		return nil
	case vaultDomain.StateUnlockedDecoy:
		return vaultDomain.ErrDecoyForbidden
	default:
		return vaultDomain.ErrLocked
	}
}

// SetDecoy implements the set_decoy operation: a decoy verifier is
// computed under the shared salt, rejected if it collides with the
// real verifier, and an empty decoy metadata envelope is written under
// a data key derived from the decoy secret.
func (m *Manager) SetDecoy(ctx context.Context, decoySecret []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireUnlockedRealLocked(); err != nil {
		return err
	}

	salt, err := m.registry.GetSalt(ctx)
	if err != nil {
		m.recordOperation("set_decoy", "error")
		return err
	}
	verifierDecoy, err := m.kdf.DeriveVerifier(decoySecret, salt)
	if err != nil {
		m.recordOperation("set_decoy", "error")
		return fmt.Errorf("failed to derive decoy verifier: %w", err)
	}
	if err := m.registry.SetDecoy(ctx, verifierDecoy); err != nil {
		m.recordOperation("set_decoy", "error")
		return err
	}

	decoyKey, err := m.kdf.DeriveKey(decoySecret, salt)
	if err != nil {
		m.recordOperation("set_decoy", "error")
		return fmt.Errorf("failed to derive decoy data key: %w", err)
	}
	defer vaultDomain.Zero(decoyKey)

	codec, err := m.codecFor(decoyKey)
	if err != nil {
		m.recordOperation("set_decoy", "error")
		return err
	}
	envelope, err := codec.Encrypt([]byte(`{"items":[]}`))
	if err != nil {
		m.recordOperation("set_decoy", "error")
		return fmt.Errorf("failed to encrypt initial decoy metadata: %w", err)
	}
	if err := m.store.Put(ctx, storeDomain.MetaDecoyName, envelope.Encode()); err != nil {
		m.recordOperation("set_decoy", "error")
		return fmt.Errorf("failed to persist decoy metadata: %w", err)
	}
	m.recordOperation("set_decoy", "success")
	return nil
}

// RemoveDecoy implements the remove_decoy operation, resolving spec §9
// open question 1 in favor of option (a): eager deletion. The decoy
// metadata envelope can't be decrypted here (only the real session key
// is in memory), so decoy-only file ids are identified by set
// difference rather than by reading the decoy index: every id under
// file/ that the real index does not reference belongs exclusively to
// the decoy corpus, since ids are generated uniquely per import and
// each item belongs to exactly one identity.
func (m *Manager) RemoveDecoy(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireUnlockedRealLocked(); err != nil {
		return err
	}

	if err := m.deleteDecoyOnlyFilesLocked(ctx); err != nil {
		m.recordOperation("remove_decoy", "error")
		return err
	}
	if err := m.store.Delete(ctx, storeDomain.MetaDecoyName); err != nil {
		m.recordOperation("remove_decoy", "error")
		return fmt.Errorf("failed to delete decoy metadata: %w", err)
	}
	if err := m.registry.ClearDecoy(ctx); err != nil {
		m.recordOperation("remove_decoy", "error")
		return err
	}
	m.recordOperation("remove_decoy", "success")
	return nil
}

// deleteDecoyOnlyFilesLocked deletes every file/<id> not referenced by
// the current (real) session index. Callers must hold m.mu and have an
// UNLOCKED_REAL session.
func (m *Manager) deleteDecoyOnlyFilesLocked(ctx context.Context) error {
	allFiles, err := m.store.List(ctx, storeDomain.FilePrefix)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	keep := make(map[string]struct{}, len(m.session.Index.Items))
	for _, item := range m.session.Index.Items {
		keep[storeDomain.FileName(item.ID)] = struct{}{}
	}
	for _, name := range allFiles {
		if _, ok := keep[name]; ok {
			continue
		}
		if err := m.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("failed to delete decoy-only file %q: %w", name, err)
		}
	}
	return nil
}
