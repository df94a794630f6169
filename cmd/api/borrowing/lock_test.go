package borrowing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/borrowing"
	"github.com/matryer/is"
)

func TestBookLocks(t *testing.T) {
	t.Run("a held lock makes the next caller wait until release", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()
		bookID := uuid.New()

		release, err := locks.Acquire(ctx, bookID, time.Second)
		is.NoErr(err)

		acquired := make(chan struct{})
		go func() {
			releaseSecond, err := locks.Acquire(ctx, bookID, time.Second)
			is.NoErr(err)
			releaseSecond()
			close(acquired)
		}()

		select {
		case <-acquired:
			t.Fatal("second caller acquired a held lock")
		case <-time.After(50 * time.Millisecond):
		}

		release()
		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("second caller never acquired the released lock")
		}
	})

	t.Run("waiting longer than maxWait answers busy", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()
		bookID := uuid.New()

		release, err := locks.Acquire(ctx, bookID, time.Second)
		is.NoErr(err)
		defer release()

		_, err = locks.Acquire(ctx, bookID, 20*time.Millisecond)
		is.True(errors.Is(err, borrowing.ErrResponseBusy))
	})

	t.Run("a cancelled context stops the wait", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()
		bookID := uuid.New()

		release, err := locks.Acquire(ctx, bookID, time.Second)
		is.NoErr(err)
		defer release()

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err = locks.Acquire(cancelCtx, bookID, time.Second)
		is.True(errors.Is(err, context.Canceled))
	})

	t.Run("locks on different books never contend", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()

		releaseA, err := locks.Acquire(ctx, uuid.New(), 10*time.Millisecond)
		is.NoErr(err)
		defer releaseA()

		releaseB, err := locks.Acquire(ctx, uuid.New(), 10*time.Millisecond)
		is.NoErr(err)
		defer releaseB()
	})

	t.Run("releasing twice is harmless", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()
		bookID := uuid.New()

		release, err := locks.Acquire(ctx, bookID, time.Second)
		is.NoErr(err)
		release()
		release()

		releaseAgain, err := locks.Acquire(ctx, bookID, 20*time.Millisecond)
		is.NoErr(err)
		releaseAgain()
	})

	t.Run("many goroutines hammering one book take turns", func(t *testing.T) {
		is := is.New(t)
		locks := borrowing.NewBookLocks()
		bookID := uuid.New()

		var inside, maxInside int
		var mu sync.Mutex

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locks.Acquire(ctx, bookID, 5*time.Second)
				if err != nil {
					return
				}
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				release()
			}()
		}
		wg.Wait()

		is.Equal(maxInside, 1)
	})
}
