package jobs

import "sync"

// KeyLock grants at most one holder per key. TryLock never blocks: a refused
// acquisition means a run for that key is already in flight and the caller
// must back off, which is exactly the duplicate-submission semantics the
// manager wants.
type KeyLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyLock creates an empty KeyLock.
func NewKeyLock() *KeyLock {
	return &KeyLock{held: make(map[string]struct{})}
}

// TryLock acquires the key if it is free and reports whether it did.
func (l *KeyLock) TryLock(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

// Unlock releases the key. Releasing a key that is not held is a no-op.
func (l *KeyLock) Unlock(key string) {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
}

// Held reports whether the key is currently locked.
func (l *KeyLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, taken := l.held[key]
	return taken
}
