package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/queue"
)

// ExpireDue expires every Pending reservation whose hold window has
// passed and returns how many it expired. Each reservation is handled in
// its own lock and atomic unit; reservations that were confirmed or
// cancelled in the meantime are skipped, so running it twice is harmless.
func (l *Ledger) ExpireDue(ctx context.Context) (int, error) {
	due, err := l.store.DuePending(ctx, l.clock.Now(), l.opts.SweepBatch)
	if err != nil {
		return 0, errs.Wrap(err, "list due reservations")
	}
	n := 0
	for _, r := range due {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		ok, err := l.expireWithRetry(ctx, r.ID, r.ScreeningID)
		if err != nil {
			l.log.Error("expire reservation", "code", r.Code, "err", err)
			continue
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// expireWithRetry retries a busy screening lock with bounded backoff. A
// reservation still locked out after the last attempt is left for the
// next sweep.
func (l *Ledger) expireWithRetry(ctx context.Context, id, screeningID uint64) (bool, error) {
	backoff := 50 * time.Millisecond
	for attempt := 1; ; attempt++ {
		ok, err := l.expireOne(ctx, id, screeningID)
		if !errors.Is(err, ErrLockTimeout) {
			return ok, err
		}
		if attempt >= l.opts.SweepAttempts {
			l.log.Warn("sweep gave up on busy screening", "reservation_id", id, "screening_id", screeningID, "attempts", attempt)
			return false, nil
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return false, ctx.Err()
		case <-t.C:
		}
		backoff *= 2
	}
}

func (l *Ledger) expireOne(ctx context.Context, id, screeningID uint64) (bool, error) {
	unlock, err := l.locks.Lock(ctx, screeningID)
	if err != nil {
		return false, err
	}
	defer unlock()

	var expired *model.Reservation
	err = l.store.Atomic(ctx, func(tx Tx) error {
		r, err := tx.Reservation(ctx, id)
		if err != nil {
			return err
		}
		now := l.clock.Now()
		if r.Status != model.StatusPending || !now.After(r.ExpiresAt) {
			return nil
		}
		if err := l.expireTx(ctx, tx, r, now); err != nil {
			return err
		}
		expired = r
		return nil
	})
	if err != nil || expired == nil {
		return false, err
	}
	l.log.Info("reservation expired", "code", expired.Code, "screening_id", expired.ScreeningID)
	l.publish(ctx, queue.EventExpired, expired, model.Actor{})
	return true, nil
}

// Sweeper runs ExpireDue on a fixed interval.
type Sweeper struct {
	ledger   *Ledger
	interval time.Duration
	log      *slog.Logger
}

func NewSweeper(l *Ledger, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{ledger: l, interval: interval, log: log.With("component", "sweeper")}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.ledger.ExpireDue(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("sweep expired reservations", "count", n)
			}
		}
	}
}
