// Package validation provides shape validation for the vault core's
// inputs, following the teacher's jellydator/validation-based custom
// rule pattern (internal/validation/rules.go).
package validation

import (
	validation "github.com/jellydator/validation"

	apperrors "github.com/rajnish8869/SecureVault-Manager/internal/errors"
	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

const (
	pinLength         = 6
	minPasswordLength = 8
)

// WrapValidationError wraps a validation error as the shared
// ErrInvalidInput domain error, matching the teacher's helper.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// SecretShape validates that secret conforms to the shape spec §3
// requires for its declared lock type: exactly 6 decimal digits for a
// PIN, or at least 8 bytes for a password.
func SecretShape(secret []byte, lockType vaultDomain.LockType) error {
	switch lockType {
	case vaultDomain.LockTypePIN:
		return WrapValidationError(validation.Validate(string(secret), validation.By(isSixDigitPIN)))
	case vaultDomain.LockTypePassword:
		return WrapValidationError(validation.Validate(string(secret), validation.Required, validation.Length(minPasswordLength, 0)))
	default:
		return WrapValidationError(validation.NewError("validation_lock_type", "unknown lock type"))
	}
}

func isSixDigitPIN(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_pin_type", "PIN must be a string")
	}
	if len(s) != pinLength {
		return validation.NewError("validation_pin_length", "PIN must be exactly 6 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return validation.NewError("validation_pin_digits", "PIN must contain only decimal digits")
		}
	}
	return nil
}
