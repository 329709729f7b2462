package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

// newItemID mints a 128-bit id and hex-encodes it without dashes, which
// is exactly a UUID's 32 hex digits — spec §6's id format falls out of
// uuid.New() for free.
func newItemID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (m *Manager) metaNameLocked() string {
	if m.session.Identity == vaultDomain.IdentityDecoy {
		return storeDomain.MetaDecoyName
	}
	return storeDomain.MetaRealName
}

// persistIndexLocked re-encrypts and writes the current session's
// metadata index; callers must hold m.mu and have a non-nil session.
func (m *Manager) persistIndexLocked(ctx context.Context) error {
	codec, err := m.codecFor(m.session.DataKey)
	if err != nil {
		return err
	}
	plaintext, err := encodeIndex(m.session.Index)
	if err != nil {
		return err
	}
	envelope, err := codec.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt metadata: %w", err)
	}
	if err := m.store.Put(ctx, m.metaNameLocked(), envelope.Encode()); err != nil {
		return fmt.Errorf("failed to persist metadata: %w", err)
	}
	return nil
}

func (m *Manager) requireUnlockedLocked() error {
	if m.state != vaultDomain.StateUnlockedReal && m.state != vaultDomain.StateUnlockedDecoy {
		return vaultDomain.ErrLocked
	}
	return nil
}

// Import implements the import operation (spec §4.5 import contract).
// If the metadata write fails after the file envelope was written, the
// file envelope is deleted so the vault remains consistent: the item is
// absent from the index and therefore unreachable.
func (m *Manager) Import(ctx context.Context, data []byte, originalName, mimeType string) (vaultDomain.VaultItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireUnlockedLocked(); err != nil {
		return vaultDomain.VaultItem{}, err
	}
	if err := ctx.Err(); err != nil {
		return vaultDomain.VaultItem{}, vaultDomain.ErrCancelled
	}

	codec, err := m.codecFor(m.session.DataKey)
	if err != nil {
		m.recordOperation("import", "error")
		return vaultDomain.VaultItem{}, err
	}
	envelope, err := codec.Encrypt(data)
	if err != nil {
		m.recordOperation("import", "error")
		return vaultDomain.VaultItem{}, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	item := vaultDomain.VaultItem{
		ID:           newItemID(),
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		ImportedAt:   time.Now(),
	}

	fileName := storeDomain.FileName(item.ID)
	if err := m.store.Put(ctx, fileName, envelope.Encode()); err != nil {
		m.recordOperation("import", "error")
		return vaultDomain.VaultItem{}, fmt.Errorf("failed to persist file: %w", err)
	}

	m.session.Index.Prepend(item)
	if err := m.persistIndexLocked(ctx); err != nil {
		// Roll back: the file must not be reachable from a reload if
		// it never made it into the index (spec §4.5 import contract).
		m.session.Index.Remove(item.ID)
		_ = m.store.Delete(ctx, fileName)
		m.recordOperation("import", "error")
		return vaultDomain.VaultItem{}, err
	}

	m.recordOperation("import", "success")
	return item, nil
}

// List implements the list operation, returning an immutable snapshot.
func (m *Manager) List(ctx context.Context) ([]vaultDomain.VaultItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return nil, err
	}
	return m.session.Index.Clone().Items, nil
}

// readItemLocked loads and decrypts one item's file envelope under the
// current session key; callers must hold m.mu.
func (m *Manager) readItemLocked(ctx context.Context, id string) ([]byte, error) {
	if _, ok := m.session.Index.Find(id); !ok {
		return nil, vaultDomain.ErrItemNotFound
	}
	raw, err := m.store.Get(ctx, storeDomain.FileName(id))
	if err != nil {
		return nil, err
	}
	envelope, err := aeadDomain.Decode(raw)
	if err != nil {
		return nil, vaultDomain.ErrCrypto
	}
	codec, err := m.codecFor(m.session.DataKey)
	if err != nil {
		return nil, err
	}
	plaintext, err := codec.Decrypt(envelope)
	if err != nil {
		// A single file's CryptoError must not corrupt the session
		// (spec §7): the manager stays UNLOCKED, other files remain
		// reachable.
		return nil, vaultDomain.ErrCrypto
	}
	return plaintext, nil
}

// Preview implements the preview operation. Alongside the plaintext it
// returns a PreviewToken the caller must pass to ReleasePreview once
// the renderer is done, so the manager can ensure the caller's buffer
// gets wiped and track how many previews are still open (spec §4.5,
// §5). The first open preview enables the screen guard; the last
// release disables it.
func (m *Manager) Preview(ctx context.Context, id string) ([]byte, vaultDomain.PreviewToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return nil, vaultDomain.PreviewToken{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, vaultDomain.PreviewToken{}, vaultDomain.ErrCancelled
	}
	plaintext, err := m.readItemLocked(ctx, id)
	if err != nil {
		m.recordOperation("preview", "error")
		return nil, vaultDomain.PreviewToken{}, err
	}

	if len(m.openPreviews) == 0 && m.screenGuard != nil {
		if err := m.screenGuard.Enable(ctx); err != nil {
			m.logger.Error("failed to enable preview screen guard", slog.Any("error", err))
		}
	}
	m.previewSeq++
	token := vaultDomain.NewPreviewToken(m.previewSeq)
	m.openPreviews[token.ID()] = struct{}{}

	m.recordOperation("preview", "success")
	return plaintext, token, nil
}

// ReleasePreview wipes the caller's preview buffer and, once the last
// open preview has released, disables the screen guard (spec §5). A
// token that isn't currently open (already released, or never issued
// by this manager instance) is tolerated as a no-op beyond the wipe,
// since the caller's obligation is "always release", not "release
// exactly once".
func (m *Manager) ReleasePreview(ctx context.Context, token vaultDomain.PreviewToken, buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vaultDomain.Zero(buf)
	delete(m.openPreviews, token.ID())
	if len(m.openPreviews) == 0 && m.screenGuard != nil {
		if err := m.screenGuard.Disable(ctx); err != nil {
			m.logger.Error("failed to disable preview screen guard", slog.Any("error", err))
		}
	}
}

// Export implements the export operation: identical semantics to
// Preview at this layer minus the token/screen-guard contract, which
// spec §5 scopes to preview only; the external collaborator that
// writes the bytes to public storage lives outside this package.
func (m *Manager) Export(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, vaultDomain.ErrCancelled
	}
	plaintext, err := m.readItemLocked(ctx, id)
	if err != nil {
		m.recordOperation("export", "error")
		return nil, err
	}
	m.recordOperation("export", "success")
	return plaintext, nil
}

// Delete implements the delete operation (spec §4.5 delete contract).
// The file envelope is removed before the index is rewritten; if the
// rewrite then fails, the next unlock reloads an index that still
// references a now-missing id — a subsequent preview/export of that id
// surfaces NotFound, which spec §4.5 explicitly allows.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireUnlockedLocked(); err != nil {
		return err
	}
	if _, ok := m.session.Index.Find(id); !ok {
		return vaultDomain.ErrItemNotFound
	}

	if err := m.store.Delete(ctx, storeDomain.FileName(id)); err != nil {
		m.recordOperation("delete", "error")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	m.session.Index.Remove(id)
	if err := m.persistIndexLocked(ctx); err != nil {
		m.recordOperation("delete", "error")
		return err
	}
	m.recordOperation("delete", "success")
	return nil
}
