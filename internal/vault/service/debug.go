package service

// DebugKeyBufferZeroed reports whether the manager's persistent data-key
// buffer currently holds only zero bytes. It exists purely to make
// spec §8 property 9 ("the data key buffer is zeroed after lock(); any
// post-lock inspection of the manager yields no key material")
// testable from outside the package, since the buffer itself is
// unexported.
func (m *Manager) DebugKeyBufferZeroed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.keyBuf {
		if b != 0 {
			return false
		}
	}
	return true
}
