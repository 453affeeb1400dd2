package booking

import "sync"

// rentalLocker serializes reservation-affecting operations per rental id.
// The overlap scan and the subsequent booking insert plus availability flip
// form a check-then-act sequence; holding the rental's lock across the whole
// sequence guarantees at most one concurrent create can succeed for an
// overlapping window. Locks are refcounted so the map does not grow with the
// number of rentals ever seen.
type rentalLocker struct {
	mu    sync.Mutex
	locks map[string]*rentalLock
}

type rentalLock struct {
	mu   sync.Mutex
	refs int
}

func newRentalLocker() *rentalLocker {
	return &rentalLocker{locks: make(map[string]*rentalLock)}
}

// Lock acquires the mutex for the given rental id, creating it on first use.
func (l *rentalLocker) Lock(rentalID string) {
	l.mu.Lock()
	entry, ok := l.locks[rentalID]
	if !ok {
		entry = &rentalLock{}
		l.locks[rentalID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the rental's mutex and drops the map entry once no other
// goroutine is waiting on it.
func (l *rentalLocker) Unlock(rentalID string) {
	l.mu.Lock()
	entry := l.locks[rentalID]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, rentalID)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
