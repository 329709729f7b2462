package domain

// Logical-name conventions from spec §6. The store itself is agnostic to
// these; they're collected here so C4/C5 callers share one source of
// truth instead of re-typing path fragments.
const (
	// MetaRealName is the real identity's metadata envelope.
	MetaRealName = "meta/real"

	// MetaDecoyName is the decoy identity's metadata envelope, absent
	// when no decoy is configured.
	MetaDecoyName = "meta/decoy"

	// FilePrefix namespaces per-item payload envelopes; the full
	// logical name is FilePrefix + the item's 32-character hex id.
	FilePrefix = "file/"
)

// FileName returns the logical name for a vault item's file envelope.
func FileName(id string) string {
	return FilePrefix + id
}
