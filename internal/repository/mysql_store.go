package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// MySQLStore is the durable Store. Each atomic unit is one database
// transaction; seat rows and the reservation row are locked with
// SELECT ... FOR UPDATE so concurrent instances stay consistent even
// without a shared screening lock.
type MySQLStore struct {
	db           *sql.DB
	reservations *ReservationRepo
	seats        *SeatStateRepo
	audit        *AuditRepo
}

var _ Store = (*MySQLStore)(nil)

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		db:           db,
		reservations: NewReservationRepo(db),
		seats:        NewSeatStateRepo(db),
		audit:        NewAuditRepo(db),
	}
}

// Atomic runs fn inside a transaction, committing only if fn succeeds.
func (s *MySQLStore) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(err, "begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&mysqlTx{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(err, "commit")
	}
	committed = true
	return nil
}

func (s *MySQLStore) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *MySQLStore) ReservationByCode(ctx context.Context, code string) (*model.Reservation, error) {
	return s.reservations.GetByCode(ctx, code)
}

func (s *MySQLStore) SearchByClientName(ctx context.Context, prefix string) ([]model.Reservation, error) {
	return s.reservations.SearchByClientName(ctx, prefix)
}

func (s *MySQLStore) DuePending(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	return s.reservations.DuePending(ctx, now, limit)
}

func (s *MySQLStore) SeatStates(ctx context.Context, screeningID uint64) (map[uint64]model.SeatStatus, error) {
	return s.seats.ListByScreening(ctx, screeningID)
}

func (s *MySQLStore) Cancellations(ctx context.Context, f model.AuditFilter) ([]model.CancellationRecord, error) {
	return s.audit.ListCancellations(ctx, f)
}

func (s *MySQLStore) Confirmations(ctx context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error) {
	return s.audit.ListConfirmations(ctx, f)
}

func (s *MySQLStore) ActiveReservations(ctx context.Context, f model.AuditFilter) ([]model.Reservation, error) {
	return s.reservations.ListActive(ctx, f)
}

type mysqlTx struct {
	s  *MySQLStore
	tx *sql.Tx
}

func (t *mysqlTx) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := t.s.reservations.GetForUpdateTx(ctx, t.tx, id)
	return r, lockConflict(err, "reservation %d is locked by a concurrent operation", id)
}

func (t *mysqlTx) SeatStates(ctx context.Context, screeningID uint64, seatIDs []uint64) (map[uint64]model.SeatStatus, error) {
	states, err := t.s.seats.LockTx(ctx, t.tx, screeningID, seatIDs)
	return states, lockConflict(err, "seats of screening %d are locked by a concurrent reservation", screeningID)
}

func (t *mysqlTx) SetSeatStatus(ctx context.Context, screeningID uint64, seatIDs []uint64, status model.SeatStatus, reservationID uint64) error {
	err := t.s.seats.BulkUpdateStatusTx(ctx, t.tx, screeningID, seatIDs, status, reservationID)
	return lockConflict(err, "seats of screening %d are locked by a concurrent reservation", screeningID)
}

func (t *mysqlTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return t.s.reservations.CreateTx(ctx, t.tx, r)
}

func (t *mysqlTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return t.s.reservations.UpdateTx(ctx, t.tx, r)
}

func (t *mysqlTx) AppendCancellation(ctx context.Context, rec *model.CancellationRecord) error {
	return t.s.audit.AppendCancellationTx(ctx, t.tx, rec)
}

func (t *mysqlTx) AppendConfirmation(ctx context.Context, rec *model.ConfirmationRecord) error {
	return t.s.audit.AppendConfirmationTx(ctx, t.tx, rec)
}

// MySQL server errors raised when a row lock cannot be granted.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// lockConflict turns a deadlock or lock wait timeout into SeatUnavailable:
// another transaction holds the rows, so the caller lost the race. Other
// errors pass through unchanged.
func lockConflict(err error, format string, args ...any) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout) {
		return errs.Newf(errs.CodeSeatUnavailable, format, args...)
	}
	return err
}
