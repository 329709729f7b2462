// Package biometric defines the vault core's interface to the external
// biometric unlock broker named in spec §1 as an out-of-scope black
// box: it attests "user present" and may hand back the cached master
// secret. This package only types that boundary; it never implements
// enrollment or sensor access.
package biometric

import "context"

// Broker is the external collaborator's interface, as seen from the
// core. A concrete implementation lives on the platform side (Face
// ID/Touch ID/BiometricPrompt) and is injected here only for the
// narrow purpose of handing back a previously sealed secret.
type Broker interface {
	// Authenticate prompts for a biometric check and reports whether
	// the user is present.
	Authenticate(ctx context.Context) (present bool, err error)
}
