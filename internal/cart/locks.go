package cart

import "sync"

// Locks hands out one mutex per device, so that overlapping requests for the
// same cart run load, mutate and persist one after another.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*deviceLock
}

type deviceLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*deviceLock)}
}

// Lock blocks until key is free. The returned unlock must be called exactly
// once.
func (l *Locks) Lock(key string) (unlock func()) {
	l.mu.Lock()
	dl, ok := l.locks[key]
	if !ok {
		dl = &deviceLock{}
		l.locks[key] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()
	return func() {
		dl.mu.Unlock()
		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len reports how many devices currently hold or wait for a lock.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
