package monitor

import "sync"

// userLocks serializes processing per user id. Without it two simultaneous
// submissions for the same user can each miss the other in their velocity
// windows; with it the second submission sees the first. Entries are never
// evicted; the per-user footprint is one mutex.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (u *userLocks) lock(userID string) func() {
	u.mu.Lock()
	m, ok := u.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		u.locks[userID] = m
	}
	u.mu.Unlock()

	m.Lock()
	return m.Unlock
}
