// Package ledger owns the reservation lifecycle: creating holds, confirming
// them into bookings, cancelling them and expiring stale ones.
//
// Every operation that reads and then changes seat states does so under
// the screening's lock and inside a single Store.Atomic unit, so two
// requests for overlapping seats of the same screening can never both
// succeed. Operations on different screenings do not wait on each other.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-boxoffice/internal/clock"
	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/pricing"
	"github.com/iliyamo/cinema-boxoffice/internal/queue"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
	"github.com/iliyamo/cinema-boxoffice/internal/selection"
)

const (
	DefaultHoldTTL = 15 * time.Minute

	minReasonLen = 10
	maxReasonLen = 200
	minSearchLen = 3
)

// Options tunes the ledger. Zero fields take their defaults.
type Options struct {
	// HoldTTL is how long a Pending reservation holds its seats.
	HoldTTL time.Duration
	// SweepBatch caps how many reservations one ExpireDue call handles.
	SweepBatch int
	// SweepAttempts is how many times the sweeper tries one reservation
	// whose screening lock is busy before leaving it for the next run.
	SweepAttempts int
}

func (o Options) withDefaults() Options {
	if o.HoldTTL <= 0 {
		o.HoldTTL = DefaultHoldTTL
	}
	if o.SweepBatch <= 0 {
		o.SweepBatch = 100
	}
	if o.SweepAttempts <= 0 {
		o.SweepAttempts = 3
	}
	return o
}

// SeatRequest picks one seat, either by id or by row and number, and the
// entry type it is sold as.
type SeatRequest struct {
	SeatID      uint64
	Row         string
	Number      uint32
	EntryTypeID int
}

// CreateRequest describes a new reservation or a direct sale.
type CreateRequest struct {
	ClientID    uint64
	ScreeningID uint64
	StaffID     *uint64
	Seats       []SeatRequest
}

// Ledger implements the reservation lifecycle.
type Ledger struct {
	store     Store
	locks     Locker
	catalog   Catalog
	prices    *pricing.Table
	validator *selection.Validator
	events    Publisher
	clock     clock.Clock
	log       *slog.Logger
	opts      Options
}

// New builds a Ledger. events may be nil, in which case no lifecycle
// events are published.
func New(store Store, locks Locker, catalog Catalog, prices *pricing.Table, events Publisher, clk clock.Clock, log *slog.Logger, opts Options) *Ledger {
	if store == nil || locks == nil || catalog == nil || prices == nil {
		panic("nil dependency passed to ledger.New")
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		store:     store,
		locks:     locks,
		catalog:   catalog,
		prices:    prices,
		validator: selection.NewValidator(prices),
		events:    events,
		clock:     clk,
		log:       log.With("component", "ledger"),
		opts:      opts.withDefaults(),
	}
}

// HoldTTL reports the hold window applied to new reservations.
func (l *Ledger) HoldTTL() time.Duration { return l.opts.HoldTTL }

// draft is a validated, priced request ready to be claimed.
type draft struct {
	screening model.Screening
	client    model.Client
	seats     []model.Seat
	lines     []model.ReservationLine
	total     decimal.Decimal
}

// prepare runs every check that needs no lock: catalog lookups, selection
// rules and pricing.
func (l *Ledger) prepare(ctx context.Context, req CreateRequest) (*draft, error) {
	scr, err := l.catalog.Screening(ctx, req.ScreeningID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Newf(errs.CodeUnknownScreening, "screening %d does not exist", req.ScreeningID)
		}
		return nil, errs.Wrap(err, "load screening")
	}
	if !scr.OnSale() {
		return nil, errs.Newf(errs.CodeUnknownScreening, "screening %d is %s", scr.ID, scr.Status)
	}
	client, err := l.catalog.Client(ctx, req.ClientID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Newf(errs.CodeUnknownClient, "client %d does not exist", req.ClientID)
		}
		return nil, errs.Wrap(err, "load client")
	}

	items := make([]selection.Item, 0, len(req.Seats))
	for _, s := range req.Seats {
		items = append(items, selection.Item{SeatID: s.SeatID, Row: s.Row, Number: s.Number, EntryTypeID: s.EntryTypeID})
	}
	seats, err := l.validator.Validate(scr.RoomID, items)
	if err != nil {
		return nil, err
	}

	d := &draft{screening: scr, client: client, seats: seats, total: decimal.Zero}
	for i, seat := range seats {
		price, err := l.prices.Price(items[i].EntryTypeID, seat.Category, scr.PriceBase)
		if err != nil {
			return nil, err
		}
		d.lines = append(d.lines, model.ReservationLine{SeatID: seat.ID, EntryTypeID: items[i].EntryTypeID, UnitPrice: price})
		d.total = d.total.Add(price)
	}
	return d, nil
}

// Create places a Pending reservation holding the requested seats for the
// hold window.
func (l *Ledger) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	d, err := l.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	var out *model.Reservation
	err = l.withScreeningLock(ctx, req.ScreeningID, func() error {
		return l.store.Atomic(ctx, func(tx Tx) error {
			now := l.clock.Now()
			r := &model.Reservation{
				ClientID:    d.client.ID,
				ClientName:  d.client.FullName(),
				ScreeningID: d.screening.ID,
				CreatedBy:   req.StaffID,
				CreatedAt:   now,
				ExpiresAt:   now.Add(l.opts.HoldTTL),
				Status:      model.StatusPending,
				TotalPrice:  d.total,
				Lines:       d.lines,
			}
			if err := l.claim(ctx, tx, r, d.seats, model.SeatHeld); err != nil {
				return err
			}
			out = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("reservation created", "code", out.Code, "screening_id", out.ScreeningID, "seats", len(out.Lines), "expires_at", out.ExpiresAt)
	return out.Clone(), nil
}

// Sell books the requested seats directly, skipping the Pending hold. It
// is a Create and a Confirm in one atomic unit.
func (l *Ledger) Sell(ctx context.Context, req CreateRequest, actor model.Actor) (*model.Receipt, error) {
	d, err := l.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	var out *model.Reservation
	err = l.withScreeningLock(ctx, req.ScreeningID, func() error {
		return l.store.Atomic(ctx, func(tx Tx) error {
			now := l.clock.Now()
			actorID := actor.ID
			r := &model.Reservation{
				ClientID:    d.client.ID,
				ClientName:  d.client.FullName(),
				ScreeningID: d.screening.ID,
				CreatedBy:   req.StaffID,
				CreatedAt:   now,
				ExpiresAt:   now.Add(l.opts.HoldTTL),
				Status:      model.StatusConfirmed,
				TotalPrice:  d.total,
				Lines:       d.lines,
				ConfirmedAt: &now,
				ConfirmedBy: &actorID,
			}
			if err := l.claim(ctx, tx, r, d.seats, model.SeatBooked); err != nil {
				return err
			}
			r.TicketCode = model.TicketCode(r.ID)
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return errs.Wrap(err, "store ticket code")
			}
			if err := tx.AppendConfirmation(ctx, confirmationRecord(r, actor, now)); err != nil {
				return errs.Wrap(err, "append confirmation")
			}
			out = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("direct sale", "code", out.Code, "ticket", out.TicketCode, "screening_id", out.ScreeningID, "actor_id", actor.ID)
	l.publish(ctx, queue.EventConfirmed, out, actor)
	return buildReceipt(out, d.screening), nil
}

// claim checks that every seat is Available, stores r and moves the seats
// to status on its behalf.
func (l *Ledger) claim(ctx context.Context, tx Tx, r *model.Reservation, seats []model.Seat, status model.SeatStatus) error {
	ids := make([]uint64, len(seats))
	for i, s := range seats {
		ids[i] = s.ID
	}
	states, err := tx.SeatStates(ctx, r.ScreeningID, ids)
	if err != nil {
		return errs.Wrap(err, "read seat states")
	}
	var taken []string
	for _, s := range seats {
		if st, ok := states[s.ID]; ok && st != model.SeatAvailable {
			taken = append(taken, s.Label())
		}
	}
	if len(taken) > 0 {
		return errs.Newf(errs.CodeSeatUnavailable, "seats not available: %s", strings.Join(taken, ", "))
	}
	if err := tx.InsertReservation(ctx, r); err != nil {
		return errs.Wrap(err, "insert reservation")
	}
	if err := tx.SetSeatStatus(ctx, r.ScreeningID, ids, status, r.ID); err != nil {
		return errs.Wrap(err, "update seat states")
	}
	return nil
}

// Confirm turns a Pending reservation into a booking and returns the
// receipt. A reservation found past its expiry is expired on the spot,
// its seats released, and the call fails with ReservationExpired.
func (l *Ledger) Confirm(ctx context.Context, id uint64, actor model.Actor) (*model.Receipt, error) {
	cur, err := l.store.Reservation(ctx, id)
	if err != nil {
		return nil, err
	}
	var (
		out     *model.Reservation
		expired bool
	)
	err = l.withScreeningLock(ctx, cur.ScreeningID, func() error {
		return l.store.Atomic(ctx, func(tx Tx) error {
			r, err := tx.Reservation(ctx, id)
			if err != nil {
				return err
			}
			if r.Status != model.StatusPending {
				return errs.Newf(errs.CodeInvalidState, "reservation %s is %s", r.Code, r.Status)
			}
			now := l.clock.Now()
			if now.After(r.ExpiresAt) {
				if err := l.expireTx(ctx, tx, r, now); err != nil {
					return err
				}
				out, expired = r, true
				return nil
			}
			if err := expectSeats(ctx, tx, r, model.SeatHeld); err != nil {
				return err
			}
			if err := tx.SetSeatStatus(ctx, r.ScreeningID, r.SeatIDs(), model.SeatBooked, r.ID); err != nil {
				return errs.Wrap(err, "book seats")
			}
			actorID := actor.ID
			r.Status = model.StatusConfirmed
			r.ConfirmedAt = &now
			r.ConfirmedBy = &actorID
			r.TicketCode = model.TicketCode(r.ID)
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return errs.Wrap(err, "update reservation")
			}
			if err := tx.AppendConfirmation(ctx, confirmationRecord(r, actor, now)); err != nil {
				return errs.Wrap(err, "append confirmation")
			}
			out = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if expired {
		l.log.Info("reservation expired on confirm", "code", out.Code, "expires_at", out.ExpiresAt)
		l.publish(ctx, queue.EventExpired, out, model.Actor{})
		return nil, errs.Newf(errs.CodeReservationExpired, "reservation %s expired at %s", out.Code, out.ExpiresAt.Format(time.RFC3339))
	}
	l.log.Info("reservation confirmed", "code", out.Code, "ticket", out.TicketCode, "actor_id", actor.ID)
	l.publish(ctx, queue.EventConfirmed, out, actor)

	scr, err := l.catalog.Screening(ctx, out.ScreeningID)
	if err != nil {
		l.log.Warn("receipt without screening details", "code", out.Code, "err", err)
		scr = model.Screening{ID: out.ScreeningID}
	}
	return buildReceipt(out, scr), nil
}

// Cancel releases the seats of a Pending or Confirmed reservation and
// records who cancelled it and why. The reason must be 10 to 200
// characters long after trimming.
func (l *Ledger) Cancel(ctx context.Context, id uint64, actor model.Actor, reason string) (*model.Reservation, error) {
	cur, err := l.store.Reservation(ctx, id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	var out *model.Reservation
	err = l.withScreeningLock(ctx, cur.ScreeningID, func() error {
		return l.store.Atomic(ctx, func(tx Tx) error {
			r, err := tx.Reservation(ctx, id)
			if err != nil {
				return err
			}
			switch r.Status {
			case model.StatusCancelled, model.StatusExpired:
				return errs.Newf(errs.CodeAlreadyCancelled, "reservation %s is already %s", r.Code, r.Status)
			case model.StatusPending, model.StatusConfirmed:
			default:
				return errs.Newf(errs.CodeInvalidState, "reservation %s is %s", r.Code, r.Status)
			}
			if n := utf8.RuneCountInString(reason); n < minReasonLen || n > maxReasonLen {
				return errs.Newf(errs.CodeInvalidReason, "reason must be %d to %d characters, got %d", minReasonLen, maxReasonLen, n)
			}
			held := model.SeatHeld
			if r.Status == model.StatusConfirmed {
				held = model.SeatBooked
			}
			if err := expectSeats(ctx, tx, r, held); err != nil {
				return err
			}
			if err := tx.SetSeatStatus(ctx, r.ScreeningID, r.SeatIDs(), model.SeatAvailable, 0); err != nil {
				return errs.Wrap(err, "release seats")
			}
			now := l.clock.Now()
			actorID := actor.ID
			r.Status = model.StatusCancelled
			r.CancelledAt = &now
			r.CancelledBy = &actorID
			r.CancelReason = reason
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return errs.Wrap(err, "update reservation")
			}
			rec := &model.CancellationRecord{
				ReservationID:   r.ID,
				ReservationCode: r.Code,
				ScreeningID:     r.ScreeningID,
				ActorID:         actor.ID,
				ActorRole:       actor.Role,
				Reason:          reason,
				At:              now,
			}
			if err := tx.AppendCancellation(ctx, rec); err != nil {
				return errs.Wrap(err, "append cancellation")
			}
			out = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("reservation cancelled", "code", out.Code, "actor_id", actor.ID, "role", actor.Role)
	l.publish(ctx, queue.EventCancelled, out, actor)
	return out.Clone(), nil
}

// FindByCode looks a reservation up by its public code.
func (l *Ledger) FindByCode(ctx context.Context, code string) (*model.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errs.Newf(errs.CodeInvalidSearch, "code is required")
	}
	return l.store.ReservationByCode(ctx, code)
}

// FindByClientNamePrefix returns every reservation whose client name
// matches text, most recent first. text must have at least three
// characters.
func (l *Ledger) FindByClientNamePrefix(ctx context.Context, text string) ([]model.Reservation, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minSearchLen {
		return nil, errs.Newf(errs.CodeInvalidSearch, "search text must have at least %d characters", minSearchLen)
	}
	return l.store.SearchByClientName(ctx, text)
}

// Reservation returns a reservation by id.
func (l *Ledger) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.store.Reservation(ctx, id)
}

// expireTx releases the seats of a Pending reservation and marks it
// Expired.
func (l *Ledger) expireTx(ctx context.Context, tx Tx, r *model.Reservation, now time.Time) error {
	if err := expectSeats(ctx, tx, r, model.SeatHeld); err != nil {
		return err
	}
	if err := tx.SetSeatStatus(ctx, r.ScreeningID, r.SeatIDs(), model.SeatAvailable, 0); err != nil {
		return errs.Wrap(err, "release seats")
	}
	r.Status = model.StatusExpired
	r.ExpiredAt = &now
	if err := tx.UpdateReservation(ctx, r); err != nil {
		return errs.Wrap(err, "update reservation")
	}
	return nil
}

// expectSeats verifies the reservation's seats are in the state its status
// implies. Anything else means the stored state was corrupted.
func expectSeats(ctx context.Context, tx Tx, r *model.Reservation, want model.SeatStatus) error {
	states, err := tx.SeatStates(ctx, r.ScreeningID, r.SeatIDs())
	if err != nil {
		return errs.Wrap(err, "read seat states")
	}
	for _, id := range r.SeatIDs() {
		got, ok := states[id]
		if !ok {
			got = model.SeatAvailable
		}
		if got != want {
			return errs.Integrity(nil, "reservation %s: seat %s is %s, want %s", r.Code, seating.LabelOf(id), got, want)
		}
	}
	return nil
}

// withScreeningLock runs fn holding the screening's lock. A lock that
// cannot be taken in time surfaces as SeatUnavailable.
func (l *Ledger) withScreeningLock(ctx context.Context, screeningID uint64, fn func() error) error {
	unlock, err := l.locks.Lock(ctx, screeningID)
	if err != nil {
		if errors.Is(err, ErrLockTimeout) {
			l.log.Warn("screening lock timeout", "screening_id", screeningID)
			return errs.Newf(errs.CodeSeatUnavailable, "screening %d is busy, try again", screeningID)
		}
		return errs.Wrap(err, "lock screening")
	}
	defer unlock()
	return fn()
}

func (l *Ledger) publish(ctx context.Context, typ string, r *model.Reservation, actor model.Actor) {
	if l.events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := l.events.Publish(pctx, queue.NewReservationEvent(typ, r, actor, l.clock.Now())); err != nil {
		l.log.Warn("event not published", "type", typ, "code", r.Code, "err", err)
	}
}

func confirmationRecord(r *model.Reservation, actor model.Actor, at time.Time) *model.ConfirmationRecord {
	return &model.ConfirmationRecord{
		ReservationID:   r.ID,
		ReservationCode: r.Code,
		TicketCode:      r.TicketCode,
		ScreeningID:     r.ScreeningID,
		ActorID:         actor.ID,
		ActorRole:       actor.Role,
		TotalPrice:      r.TotalPrice,
		At:              at,
	}
}

func buildReceipt(r *model.Reservation, scr model.Screening) *model.Receipt {
	seats := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		if s, ok := seating.Locate(line.SeatID); ok {
			seats = append(seats, s.Label()+" ("+string(s.Category)+")")
		}
	}
	rc := &model.Receipt{
		ReservationID:   r.ID,
		ReservationCode: r.Code,
		TicketCode:      r.TicketCode,
		ClientName:      r.ClientName,
		Title:           scr.Title,
		Room:            scr.RoomName,
		Showtime:        scr.StartsAt,
		Seats:           seats,
		TotalPrice:      r.TotalPrice,
	}
	if r.ConfirmedAt != nil {
		rc.IssuedAt = *r.ConfirmedAt
	}
	return rc
}
