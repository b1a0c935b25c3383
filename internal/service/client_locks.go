package service

import "sync"

// CollectionLocks serialises merge-and-apply steps per local collection.
// The orchestrator and the reconciler share one instance so that a full sync
// and a realtime reconciliation never race on the same collection.
type CollectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCollectionLocks returns an empty lock set.
func NewCollectionLocks() *CollectionLocks {
	return &CollectionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until collection is free and returns its unlock function.
func (l *CollectionLocks) Lock(collection string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[collection]
	if !ok {
		m = &sync.Mutex{}
		l.locks[collection] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// TryLock acquires collection if it is free.
func (l *CollectionLocks) TryLock(collection string) (unlock func(), ok bool) {
	l.mu.Lock()
	m, exists := l.locks[collection]
	if !exists {
		m = &sync.Mutex{}
		l.locks[collection] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}
