package usecase

import "sync"

// userLocks hands out one mutex per user id and forgets it once unused.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// lock blocks until the user's mutex is held and returns its release func.
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// staleBalances tracks users whose cached balance may be out of date.
type staleBalances struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

func newStaleBalances() *staleBalances {
	return &staleBalances{users: make(map[string]struct{})}
}

func (s *staleBalances) mark(userID string) {
	s.mu.Lock()
	s.users[userID] = struct{}{}
	s.mu.Unlock()
}

func (s *staleBalances) clear(userID string) {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
}

func (s *staleBalances) has(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok
}
