package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

// ErrLockTimeout is returned by a Locker when the screening lock could not
// be taken in time.
var ErrLockTimeout = errs.New("screening lock timeout")

// Locker serialises state changes per screening. Locks for different
// screenings never wait on each other.
type Locker interface {
	// Lock blocks until the screening's lock is held, the locker's timeout
	// elapses (ErrLockTimeout) or ctx is done. The returned func releases
	// the lock and must be called exactly once.
	Lock(ctx context.Context, screeningID uint64) (unlock func(), err error)
}

// LocalLocker is an in-process Locker. It is enough for a single
// instance; deployments with several instances use RedisLocker.
type LocalLocker struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[uint64]chan struct{}
}

func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{timeout: timeout, slots: make(map[uint64]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, screeningID uint64) (func(), error) {
	slot := l.slot(screeningID)
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()
	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) slot(screeningID uint64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[screeningID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[screeningID] = s
	}
	return s
}
