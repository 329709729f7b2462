// Package domain defines the object-store component's error vocabulary
// and logical-name conventions (spec §4.3, §6).
package domain

import (
	"github.com/rajnish8869/SecureVault-Manager/internal/errors"
)

var (
	// ErrNotFound indicates a get/delete against a logical name with no
	// backing object.
	ErrNotFound = errors.Wrap(errors.ErrNotFound, "object not found")

	// ErrInvalidName indicates a logical name escapes the store root or
	// is otherwise not a valid path component (empty, absolute, "..").
	ErrInvalidName = errors.Wrap(errors.ErrInvalidInput, "invalid object name")
)
