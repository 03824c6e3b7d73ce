package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReservationRepo reads and writes the reservations and reservation_lines
// tables. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, code, client_id, client_name, screening_id, created_by, created_at, expires_at,
	status, total_price, ticket_code, confirmed_at, confirmed_by, cancelled_at, cancelled_by, cancel_reason, expired_at`

// CreateTx inserts a reservation and its lines within the scope of an
// existing transaction. The generated id is written back to res and the
// public code derived from it is stored in the same transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (client_id, client_name, screening_id, created_by, created_at, expires_at,
		status, total_price, ticket_code, confirmed_at, confirmed_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.ClientID, res.ClientName, res.ScreeningID, u64Arg(res.CreatedBy), res.CreatedAt.UTC(), res.ExpiresAt.UTC(),
		string(res.Status), res.TotalPrice, strArg(res.TicketCode), timeArg(res.ConfirmedAt), u64Arg(res.ConfirmedBy),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Code = model.ReservationCode(res.ID)
	if _, err := tx.ExecContext(ctx, `UPDATE reservations SET code = ? WHERE id = ?`, res.Code, res.ID); err != nil {
		return err
	}
	return r.createLinesTx(ctx, tx, res.ID, res.Lines)
}

// createLinesTx inserts all lines of a reservation in a single statement.
func (r *ReservationRepo) createLinesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, lines []model.ReservationLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_lines (reservation_id, line_no, seat_id, entry_type_id, unit_price) VALUES `
	args := make([]any, 0, len(lines)*5)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, reservationID, i+1, l.SeatID, l.EntryTypeID, l.UnitPrice)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateTx writes the mutable lifecycle columns of a reservation. Lines
// never change after creation.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations SET status = ?, ticket_code = ?, confirmed_at = ?, confirmed_by = ?,
		cancelled_at = ?, cancelled_by = ?, cancel_reason = ?, expired_at = ? WHERE id = ?`
	result, err := tx.ExecContext(ctx, q,
		string(res.Status), strArg(res.TicketCode), timeArg(res.ConfirmedAt), u64Arg(res.ConfirmedBy),
		timeArg(res.CancelledAt), u64Arg(res.CancelledBy), strArg(res.CancelReason), timeArg(res.ExpiredAt), res.ID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 for an unchanged row too; confirm it exists.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, res.ID).Scan(&one); err != nil {
			return notFound(err, "reservation %d", res.ID)
		}
	}
	return nil
}

// GetForUpdateTx loads a reservation and locks its row until the
// transaction ends.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	return r.getOne(ctx, tx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id)
}

// GetByID loads a reservation with its lines.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return r.getOne(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
}

// GetByCode loads a reservation by its public code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (*model.Reservation, error) {
	return r.getOne(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations WHERE code = ?`, code)
}

func (r *ReservationRepo) getOne(ctx context.Context, q querier, query string, arg any) (*model.Reservation, error) {
	res, err := scanReservation(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, notFound(err, "reservation %v", arg)
	}
	lines, err := r.loadLines(ctx, q, []uint64{res.ID})
	if err != nil {
		return nil, err
	}
	res.Lines = lines[res.ID]
	return res, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByClientName matches prefix against the start of the client name
// or of any word in it, newest first.
func (r *ReservationRepo) SearchByClientName(ctx context.Context, prefix string) ([]model.Reservation, error) {
	p := likeEscaper.Replace(strings.TrimSpace(prefix))
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE client_name LIKE CONCAT(?, '%') OR client_name LIKE CONCAT('% ', ?, '%')
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, p, p)
}

// DuePending lists Pending reservations whose expiry is before now.
func (r *ReservationRepo) DuePending(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = ? AND expires_at < ? ORDER BY expires_at, id LIMIT ?`
	return r.list(ctx, q, string(model.StatusPending), now.UTC(), limit)
}

// ListActive lists Pending and Confirmed reservations matching f, newest
// first. The actor filter applies to created_by.
func (r *ReservationRepo) ListActive(ctx context.Context, f model.AuditFilter) ([]model.Reservation, error) {
	where, args := filterClause(f, "screening_id", "created_by", "created_at")
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE status IN (?, ?)` + where + ` ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, append([]any{string(model.StatusPending), string(model.StatusConfirmed)}, args...)...)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	var ids []uint64
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	if out == nil {
		out = []model.Reservation{}
	}
	return out, nil
}

// loadLines fetches the lines of several reservations with one IN query.
func (r *ReservationRepo) loadLines(ctx context.Context, q querier, ids []uint64) (map[uint64][]model.ReservationLine, error) {
	out := make(map[uint64][]model.ReservationLine, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx,
		`SELECT reservation_id, seat_id, entry_type_id, unit_price FROM reservation_lines
		 WHERE reservation_id IN (`+placeholders+`) ORDER BY reservation_id, line_no`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var resID uint64
		var l model.ReservationLine
		if err := rows.Scan(&resID, &l.SeatID, &l.EntryTypeID, &l.UnitPrice); err != nil {
			return nil, err
		}
		out[resID] = append(out[resID], l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(s scanner) (*model.Reservation, error) {
	var (
		res                                 model.Reservation
		code, ticket, reason                sql.NullString
		createdBy, confirmedBy, cancelledBy sql.NullInt64
		confirmedAt, cancelledAt, expiredAt sql.NullTime
		status                              string
	)
	err := s.Scan(
		&res.ID, &code, &res.ClientID, &res.ClientName, &res.ScreeningID, &createdBy, &res.CreatedAt, &res.ExpiresAt,
		&status, &res.TotalPrice, &ticket, &confirmedAt, &confirmedBy, &cancelledAt, &cancelledBy, &reason, &expiredAt,
	)
	if err != nil {
		return nil, err
	}
	res.Code = code.String
	res.Status = model.ReservationStatus(status)
	res.TicketCode = ticket.String
	res.CancelReason = reason.String
	res.CreatedBy = nullU64(createdBy)
	res.ConfirmedBy = nullU64(confirmedBy)
	res.CancelledBy = nullU64(cancelledBy)
	res.ConfirmedAt = nullTime(confirmedAt)
	res.CancelledAt = nullTime(cancelledAt)
	res.ExpiredAt = nullTime(expiredAt)
	return &res, nil
}

// filterClause renders an AuditFilter as " AND ..." conditions on the
// given columns.
func filterClause(f model.AuditFilter, screeningCol, actorCol, timeCol string) (string, []any) {
	var b strings.Builder
	var args []any
	if f.ScreeningID != 0 {
		b.WriteString(" AND " + screeningCol + " = ?")
		args = append(args, f.ScreeningID)
	}
	if f.ActorID != 0 {
		b.WriteString(" AND " + actorCol + " = ?")
		args = append(args, f.ActorID)
	}
	if f.From != nil {
		b.WriteString(" AND " + timeCol + " >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		b.WriteString(" AND " + timeCol + " <= ?")
		args = append(args, f.To.UTC())
	}
	return b.String(), args
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Newf(errs.CodeNotFound, format+" not found", args...)
	}
	return err
}

func nullU64(n sql.NullInt64) *uint64 {
	if !n.Valid {
		return nil
	}
	v := uint64(n.Int64)
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func u64Arg(p *uint64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timeArg(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

func strArg(s string) any {
	if s == "" {
		return nil
	}
	return s
}
