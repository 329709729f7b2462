package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	aeadDomain "github.com/rajnish8869/SecureVault-Manager/internal/aead/domain"
	credDomain "github.com/rajnish8869/SecureVault-Manager/internal/credential/domain"
	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
	"github.com/rajnish8869/SecureVault-Manager/internal/validation"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

// journalName is a plain (unencrypted) breadcrumb recording rotation
// progress. It is deliberately plaintext — it names only item ids, no
// secrets — so it stays readable regardless of which key is live. See
// the design note on rotationJournal for what it can and can't recover.
const journalName = "rotate/journal"

// rotationJournal is the on-disk shape of the rotation breadcrumb
// described in spec §4.5 step 4. It is a diagnostic record, not a
// resumable-across-restart recovery log: finishing an interrupted
// rotation forward requires the new secret, which this process never
// persists. If a stale journal is found (a prior process crashed
// mid-rotation), the only safe move is to report it and leave the
// mixed-key files as found; see DESIGN.md for the full rationale.
type rotationJournal struct {
	TargetIDs  []string `json:"target_ids"`
	MigratedID []string `json:"migrated_ids"`
}

func (m *Manager) writeJournalLocked(ctx context.Context, j rotationJournal) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to encode rotation journal: %w", err)
	}
	return m.store.Put(ctx, journalName, data)
}

// Rotate implements the rotate operation (spec §4.5's rotation
// protocol, the most delicate operation in the state machine). It
// re-verifies oldSecret, re-encrypts every item under a freshly derived
// key, and only then commits the new salt/verifier to the registry.
func (m *Manager) Rotate(ctx context.Context, oldSecret, newSecret []byte, newLockType vaultDomain.LockType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := time.Now()

	if err := m.requireUnlockedRealLocked(); err != nil {
		return err
	}

	// Step 1: re-verify the OLD secret through the normal identify path.
	salt, err := m.registry.GetSalt(ctx)
	if err != nil {
		return err
	}
	oldVerifier, err := m.kdf.DeriveVerifier(oldSecret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive old verifier: %w", err)
	}
	oldIdentity, err := m.registry.Identify(ctx, oldVerifier)
	if err != nil {
		return err
	}
	if oldIdentity != credDomain.IdentityReal {
		return vaultDomain.ErrInvalidCredential
	}
	if err := validation.SecretShape(newSecret, newLockType); err != nil {
		return err
	}

	// Step 2: derive old_key. The in-memory index is already loaded
	// under this key from unlock/import/delete, so it doesn't need a
	// fresh reload from the store.
	oldKey, err := m.kdf.DeriveKey(oldSecret, salt)
	if err != nil {
		return fmt.Errorf("failed to derive old data key: %w", err)
	}
	defer vaultDomain.Zero(oldKey)

	// Step 3: new salt, new verifier, new key.
	newSalt := make([]byte, 16)
	if _, err := rand.Read(newSalt); err != nil {
		return fmt.Errorf("failed to generate new salt: %w", err)
	}
	newVerifierReal, err := m.kdf.DeriveVerifier(newSecret, newSalt)
	if err != nil {
		return fmt.Errorf("failed to derive new verifier: %w", err)
	}
	newKey, err := m.kdf.DeriveKey(newSecret, newSalt)
	if err != nil {
		return fmt.Errorf("failed to derive new data key: %w", err)
	}
	defer vaultDomain.Zero(newKey)

	items := m.session.Index.Clone().Items
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	m.state = vaultDomain.StateRotating
	if err := m.writeJournalLocked(ctx, rotationJournal{TargetIDs: ids}); err != nil {
		m.state = vaultDomain.StateUnlockedReal
		return err
	}

	migrated, migrateErr := m.migrateFilesLocked(ctx, ids, oldKey, newKey)
	if migrateErr != nil {
		// Step 4 abort path: reverse the already-migrated files back
		// under old_key so the corpus is fully consistent under the
		// still-current credential, then surface the error.
		m.revertFilesLocked(ctx, migrated, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return fmt.Errorf("rotation aborted, files reverted: %w", migrateErr)
	}

	// Step 5: re-encrypt the metadata envelope under new_key.
	newCodec, err := m.codecFor(newKey)
	if err != nil {
		m.revertFilesLocked(ctx, ids, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return err
	}
	plaintext, err := encodeIndex(vaultDomain.MetadataIndex{Items: items})
	if err != nil {
		m.revertFilesLocked(ctx, ids, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return err
	}
	envelope, err := newCodec.Encrypt(plaintext)
	if err != nil {
		m.revertFilesLocked(ctx, ids, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return fmt.Errorf("failed to encrypt rotated metadata: %w", err)
	}
	if err := m.store.Put(ctx, storeDomain.MetaRealName, envelope.Encode()); err != nil {
		m.revertFilesLocked(ctx, ids, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return fmt.Errorf("failed to persist rotated metadata: %w", err)
	}

	// Step 6: commit the new credential. This also clears the decoy
	// verifier; the old decoy data key is unreachable once the salt
	// changes, so its files are deleted deterministically rather than
	// left orphaned (same eager-delete policy as RemoveDecoy, resolving
	// spec §9 open question 1).
	if err := m.registry.Rotate(ctx, newSalt, newVerifierReal, credDomain.LockType(newLockType)); err != nil {
		m.revertFilesLocked(ctx, ids, oldKey, newKey)
		_ = m.store.Delete(ctx, journalName)
		m.state = vaultDomain.StateUnlockedReal
		m.recordOperation("rotate", "error")
		return fmt.Errorf("failed to commit rotated credential: %w", err)
	}
	if err := m.deleteDecoyOnlyFilesLocked(ctx); err != nil {
		// The credential is already rotated; this is cleanup, not
		// correctness, so it's logged by the caller via the returned
		// error rather than reverted.
		_ = m.store.Delete(ctx, journalName)
		m.forceLockLocked()
		m.recordOperation("rotate", "error")
		return fmt.Errorf("rotation committed but decoy cleanup failed: %w", err)
	}
	if err := m.store.Delete(ctx, storeDomain.MetaDecoyName); err != nil {
		_ = m.store.Delete(ctx, journalName)
		m.forceLockLocked()
		m.recordOperation("rotate", "error")
		return fmt.Errorf("rotation committed but decoy metadata cleanup failed: %w", err)
	}

	_ = m.store.Delete(ctx, journalName)

	if m.metrics != nil {
		m.metrics.ObserveRotation(time.Since(start), len(ids))
	}

	// Step 7: zero old_key (deferred above already handles it on
	// return) and force re-unlock with the new secret.
	m.forceLockLocked()
	m.recordOperation("rotate", "success")
	return nil
}

// forceLockLocked transitions ROTATING -> LOCKED unconditionally,
// zeroing the session exactly like a normal lock.
func (m *Manager) forceLockLocked() {
	if m.session != nil {
		m.session.Wipe()
	}
	m.zeroSessionKey()
	m.session = nil
	m.state = vaultDomain.StateLocked
}

// migrateFilesLocked re-encrypts every id's file envelope from oldKey
// to newKey using a worker pool bounded by m.rotation.Workers (spec §5:
// "rotation's per-file re-encryption is embarrassingly parallel and
// SHOULD use a worker pool bounded by CPU count"). It reports the ids
// it successfully migrated even when it returns an error, so the caller
// can revert exactly that set.
func (m *Manager) migrateFilesLocked(ctx context.Context, ids []string, oldKey, newKey []byte) ([]string, error) {
	workers := m.rotation.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sem := semaphore.NewWeighted(int64(workers))
	group, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var migrated []string
	total := len(ids)
	done := 0

	for i, id := range ids {
		id := id
		idx := i
		if err := sem.Acquire(gctx, 1); err != nil {
			_ = group.Wait()
			return migrated, err
		}
		group.Go(func() error {
			defer sem.Release(1)
			if err := m.migrateOneFile(gctx, id, oldKey, newKey); err != nil {
				return fmt.Errorf("item %s (index %d): %w", id, idx, err)
			}
			mu.Lock()
			migrated = append(migrated, id)
			done++
			_ = m.writeJournalLocked(gctx, rotationJournal{TargetIDs: ids, MigratedID: append([]string(nil), migrated...)})
			progress := m.progress
			doneCount, totalCount := done, total
			mu.Unlock()
			if progress != nil {
				progress(doneCount, totalCount)
			}
			return nil
		})
	}

	err := group.Wait()
	return migrated, err
}

// migrateOneFile re-encrypts a single file envelope, retrying bounded
// transient store failures per spec §7 ("the core does not retry IO
// except the bounded retries inside rotation").
func (m *Manager) migrateOneFile(ctx context.Context, id string, oldKey, newKey []byte) error {
	operation := func() error {
		raw, err := m.store.Get(ctx, storeDomain.FileName(id))
		if err != nil {
			return err
		}
		envelope, err := aeadDomain.Decode(raw)
		if err != nil {
			return backoff.Permanent(vaultDomain.ErrCrypto)
		}
		oldCodec, err := m.codecFor(oldKey)
		if err != nil {
			return backoff.Permanent(err)
		}
		plaintext, err := oldCodec.Decrypt(envelope)
		if err != nil {
			return backoff.Permanent(vaultDomain.ErrCrypto)
		}
		newCodec, err := m.codecFor(newKey)
		if err != nil {
			return backoff.Permanent(err)
		}
		newEnvelope, err := newCodec.Encrypt(plaintext)
		if err != nil {
			return backoff.Permanent(err)
		}
		return m.store.Put(ctx, storeDomain.FileName(id), newEnvelope.Encode())
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(m.rotation.MaxRetries))
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

// revertFilesLocked re-encrypts every already-migrated id back under
// oldKey, best-effort. Failures here are aggregated with multierror and
// logged here rather than returned, because the rotation has already
// failed; a revert failure leaves that one file under newKey, which the
// registry — still pointing at the old salt/verifier — cannot reach,
// and newKey is zeroed when Rotate returns.
func (m *Manager) revertFilesLocked(ctx context.Context, migrated []string, oldKey, newKey []byte) {
	var errs *multierror.Error
	for _, id := range migrated {
		if err := m.migrateOneFile(ctx, id, newKey, oldKey); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("revert %s: %w", id, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		m.logger.Error("rotation revert incomplete, some files remain under the new key",
			slog.Any("error", err),
			slog.Int("attempted", len(migrated)),
		)
	}
}
