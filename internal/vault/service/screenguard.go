package service

import "context"

// ScreenGuard is the external platform collaborator that hides the app
// in the task switcher and blocks screenshots while a preview is open
// (spec §5: "The manager MUST enable platform-specific 'screen hidden
// in task switcher' and 'screenshot blocked' flags while a preview is
// open"). A concrete implementation lives on the platform side (e.g.
// iOS's isScreenCaptured hook or Android's FLAG_SECURE); the manager
// only toggles it around the open-preview count, the same way
// biometric.Broker types a collaborator it never implements.
type ScreenGuard interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
}
