package service

import "context"

// GetBiometricEnabled, SetBiometricEnabled, GetIntruderSettings and
// SetIntruderSettings route the C4 registry's opaque pass-through
// settings through the manager (spec §6 lists them alongside every
// other UI-facing operation), the same way every other call reaches
// the registry only through this package rather than letting callers
// hold a Registry reference directly.

// GetBiometricEnabled reports whether biometric unlock is enrolled.
func (m *Manager) GetBiometricEnabled(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return false, err
	}
	return m.registry.GetBiometricEnabled(ctx)
}

// SetBiometricEnabled records the biometric-enrollment flag consumed
// by the external biometric broker.
func (m *Manager) SetBiometricEnabled(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return err
	}
	return m.registry.SetBiometricEnabled(ctx, enabled)
}

// GetIntruderSettings returns the opaque settings blob consumed by the
// external intruder-capture subsystem.
func (m *Manager) GetIntruderSettings(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return nil, err
	}
	return m.registry.GetIntruderSettings(ctx)
}

// SetIntruderSettings stores the opaque settings blob consumed by the
// external intruder-capture subsystem.
func (m *Manager) SetIntruderSettings(ctx context.Context, settings []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireUnlockedLocked(); err != nil {
		return err
	}
	return m.registry.SetIntruderSettings(ctx, settings)
}
