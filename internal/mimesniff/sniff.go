// Package mimesniff provides advisory MIME-type detection for payloads
// imported without a caller-supplied type, per spec §3's "mime_type
// (advisory label)".
package mimesniff

import "github.com/gabriel-vasile/mimetype"

// Detect returns the advisory MIME type for data. It never fails: an
// unrecognized payload is reported as application/octet-stream, which
// is exactly what mimetype.Detect already falls back to.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}
