package ledger

import (
	"context"
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/queue"
)

// Store persists reservations, per-screening seat states and the audit
// records. Every state change goes through Atomic, which must apply all of
// the callback's writes or none of them.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	Reservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ReservationByCode(ctx context.Context, code string) (*model.Reservation, error)
	// SearchByClientName returns reservations whose client name matches
	// prefix (see model.NameMatches), most recent first.
	SearchByClientName(ctx context.Context, prefix string) ([]model.Reservation, error)
	// DuePending returns up to limit Pending reservations whose expiry is
	// before now, oldest expiry first.
	DuePending(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
}

// Tx is the write side of a Store inside one atomic unit.
type Tx interface {
	// Reservation reads a reservation for update. Unknown ids fail with
	// NotFound.
	Reservation(ctx context.Context, id uint64) (*model.Reservation, error)
	// SeatStates returns the state of each requested seat for a
	// screening, locking them for the rest of the unit. Seats never
	// touched before are Available.
	SeatStates(ctx context.Context, screeningID uint64, seatIDs []uint64) (map[uint64]model.SeatStatus, error)
	// SetSeatStatus moves seats to status. reservationID is 0 when seats
	// are released.
	SetSeatStatus(ctx context.Context, screeningID uint64, seatIDs []uint64, status model.SeatStatus, reservationID uint64) error
	// InsertReservation stores r, assigning r.ID and r.Code.
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	AppendCancellation(ctx context.Context, rec *model.CancellationRecord) error
	AppendConfirmation(ctx context.Context, rec *model.ConfirmationRecord) error
}

// Catalog resolves screenings and clients. Unknown ids fail with NotFound.
type Catalog interface {
	Screening(ctx context.Context, id uint64) (model.Screening, error)
	Client(ctx context.Context, id uint64) (model.Client, error)
}

// Publisher delivers lifecycle events after commit. Failures never undo a
// committed change.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}
