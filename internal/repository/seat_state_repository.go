package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// SeatStateRepo encapsulates the screening_seat_states table. Rows are
// created lazily the first time a seat of a screening is claimed; a seat
// without a row is Available.
type SeatStateRepo struct {
	db *sql.DB
}

// NewSeatStateRepo constructs a SeatStateRepo given a DB handle.
func NewSeatStateRepo(db *sql.DB) *SeatStateRepo {
	return &SeatStateRepo{db: db}
}

// LockTx materialises the rows of the given seats (as Available when new)
// and locks them with SELECT ... FOR UPDATE, returning their states.
func (r *SeatStateRepo) LockTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seatIDs []uint64) (map[uint64]model.SeatStatus, error) {
	out := make(map[uint64]model.SeatStatus, len(seatIDs))
	if len(seatIDs) == 0 {
		return out, nil
	}
	insert := `INSERT IGNORE INTO screening_seat_states (screening_id, seat_id, status) VALUES `
	args := make([]any, 0, len(seatIDs)*3)
	for i, id := range seatIDs {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?, ?)"
		args = append(args, screeningID, id, string(model.SeatAvailable))
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return nil, err
	}

	sel := `SELECT seat_id, status FROM screening_seat_states WHERE screening_id = ? AND seat_id IN (` +
		placeholders(len(seatIDs)) + `) ORDER BY seat_id FOR UPDATE`
	selArgs := append([]any{screeningID}, idArgs(seatIDs)...)
	rows, err := tx.QueryContext(ctx, sel, selArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = model.SeatStatus(status)
	}
	return out, rows.Err()
}

// BulkUpdateStatusTx sets the status and owning reservation of several
// seats in one statement. A zero reservationID clears the owner.
func (r *SeatStateRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seatIDs []uint64, status model.SeatStatus, reservationID uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	var owner any
	if reservationID != 0 {
		owner = reservationID
	}
	q := `UPDATE screening_seat_states SET status = ?, reservation_id = ? WHERE screening_id = ? AND seat_id IN (` +
		placeholders(len(seatIDs)) + `)`
	args := append([]any{string(status), owner, screeningID}, idArgs(seatIDs)...)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ListByScreening returns the seats of a screening that are not Available.
// It takes no lock.
func (r *SeatStateRepo) ListByScreening(ctx context.Context, screeningID uint64) (map[uint64]model.SeatStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_id, status FROM screening_seat_states WHERE screening_id = ? AND status <> ?`,
		screeningID, string(model.SeatAvailable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]model.SeatStatus)
	for rows.Next() {
		var id uint64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		out[id] = model.SeatStatus(status)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
