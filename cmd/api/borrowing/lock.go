package borrowing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BookLocks serializes borrow and return calls per book, so operations on
// different books never contend. Acquire waits at most maxWait for the
// current holder before giving up with ErrResponseBusy.
type BookLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*bookLock
}

type bookLock struct {
	sem  chan struct{}
	refs int
}

func NewBookLocks() *BookLocks {
	return &BookLocks{locks: make(map[uuid.UUID]*bookLock)}
}

/* Takes the lock of a single book and returns the release function. */
func (b *BookLocks) Acquire(ctx context.Context, bookID uuid.UUID, maxWait time.Duration) (func(), error) {
	b.mu.Lock()
	l, ok := b.locks[bookID]
	if !ok {
		l = &bookLock{sem: make(chan struct{}, 1)}
		b.locks[bookID] = l
	}
	l.refs++
	b.mu.Unlock()

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-l.sem
				b.forget(bookID, l)
			})
		}, nil
	case <-timer.C:
		b.forget(bookID, l)
		return nil, ErrResponseBusy
	case <-ctx.Done():
		b.forget(bookID, l)
		return nil, ctx.Err()
	}
}

// forget drops one reference and removes the entry once nobody holds or
// waits on it, so the map does not grow with every book ever touched.
func (b *BookLocks) forget(bookID uuid.UUID, l *bookLock) {
	b.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(b.locks, bookID)
	}
	b.mu.Unlock()
}
