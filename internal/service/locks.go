package service

import "sync"

// tutorLocks мьютекс на каждого репетитора
type tutorLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTutorLocks() *tutorLocks {
	return &tutorLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock захватывает мьютекс репетитора и возвращает функцию освобождения
func (l *tutorLocks) lock(tutorID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[tutorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tutorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
