package lock

import (
	"context"
	"sync"
)

// MemoryLocker is a keyed mutex for single-instance deployments.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

func (m *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	kl, ok := m.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = kl
	}
	kl.refs++
	m.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		m.drop(key, kl)
		return nil, waitErr(ctx)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			m.drop(key, kl)
		})
	}, nil
}

func (m *MemoryLocker) drop(key string, kl *keyLock) {
	m.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}
