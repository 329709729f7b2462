package domain

// Zero overwrites a byte slice with zeros to clear key material from
// memory on every exit path (success, error, panic, cancellation, lock).
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
