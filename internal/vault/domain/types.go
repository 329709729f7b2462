// Package domain models the vault manager component (C5): the state
// machine, its session value, and the per-identity metadata index
// described in spec §3 and §4.5.
package domain

import "time"

// State names a node in the vault manager's state machine (spec §4.5).
type State int

const (
	StateUninitialized State = iota
	StateLocked
	StateUnlockedReal
	StateUnlockedDecoy
	StateRotating
	StateWiped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateLocked:
		return "LOCKED"
	case StateUnlockedReal:
		return "UNLOCKED_REAL"
	case StateUnlockedDecoy:
		return "UNLOCKED_DECOY"
	case StateRotating:
		return "ROTATING"
	case StateWiped:
		return "WIPED"
	default:
		return "UNKNOWN"
	}
}

// LockType mirrors credDomain.LockType; duplicated here so this package
// has no dependency on the credential registry's internals, only on its
// own vocabulary (spec §3's Auth Record belongs to C4, not C5).
type LockType string

const (
	LockTypePIN      LockType = "PIN"
	LockTypePassword LockType = "PASSWORD"
)

// Identity names which corpus a session is attached to.
type Identity int

const (
	IdentityReal Identity = iota
	IdentityDecoy
)

func (i Identity) String() string {
	if i == IdentityDecoy {
		return "DECOY"
	}
	return "REAL"
}

// VaultItem is one entry in a metadata index (spec §3).
type VaultItem struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	ImportedAt   time.Time `json:"imported_at"`
}

// MetadataIndex is the ordered, newest-first sequence of items for one
// identity. It is the plaintext that a metadata envelope encrypts.
type MetadataIndex struct {
	Items []VaultItem `json:"items"`
}

// Prepend adds item to the front of the index, preserving the
// newest-first ordering spec §3 requires.
func (idx *MetadataIndex) Prepend(item VaultItem) {
	idx.Items = append([]VaultItem{item}, idx.Items...)
}

// Remove deletes the item with the given id, reporting whether it was
// present.
func (idx *MetadataIndex) Remove(id string) bool {
	for i, item := range idx.Items {
		if item.ID == id {
			idx.Items = append(idx.Items[:i], idx.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the item with the given id, if present.
func (idx *MetadataIndex) Find(id string) (VaultItem, bool) {
	for _, item := range idx.Items {
		if item.ID == id {
			return item, true
		}
	}
	return VaultItem{}, false
}

// Clone returns a deep copy, used to hand callers an immutable snapshot
// per spec §5's "readers of metadata snapshots may take a cheap
// immutable copy".
func (idx MetadataIndex) Clone() MetadataIndex {
	items := make([]VaultItem, len(idx.Items))
	copy(items, idx.Items)
	return MetadataIndex{Items: items}
}
