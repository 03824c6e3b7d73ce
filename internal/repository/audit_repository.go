package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// AuditRepo appends to and lists the cancellation_records and
// confirmation_records tables. Records are never updated or deleted.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AppendCancellationTx inserts a cancellation record and sets its id.
func (r *AuditRepo) AppendCancellationTx(ctx context.Context, tx *sql.Tx, rec *model.CancellationRecord) error {
	const q = `INSERT INTO cancellation_records (reservation_id, reservation_code, screening_id, actor_id, actor_role, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rec.ReservationID, rec.ReservationCode, rec.ScreeningID, rec.ActorID, rec.ActorRole, rec.Reason, rec.At.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// AppendConfirmationTx inserts a confirmation record and sets its id.
func (r *AuditRepo) AppendConfirmationTx(ctx context.Context, tx *sql.Tx, rec *model.ConfirmationRecord) error {
	const q = `INSERT INTO confirmation_records (reservation_id, reservation_code, ticket_code, screening_id, actor_id, actor_role, total_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rec.ReservationID, rec.ReservationCode, rec.TicketCode, rec.ScreeningID, rec.ActorID, rec.ActorRole, rec.TotalPrice, rec.At.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ListCancellations returns cancellation records matching f, newest first.
func (r *AuditRepo) ListCancellations(ctx context.Context, f model.AuditFilter) ([]model.CancellationRecord, error) {
	where, args := filterClause(f, "screening_id", "actor_id", "created_at")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reservation_id, reservation_code, screening_id, actor_id, actor_role, reason, created_at
		 FROM cancellation_records WHERE 1=1`+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CancellationRecord{}
	for rows.Next() {
		var rec model.CancellationRecord
		if err := rows.Scan(&rec.ID, &rec.ReservationID, &rec.ReservationCode, &rec.ScreeningID, &rec.ActorID, &rec.ActorRole, &rec.Reason, &rec.At); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListConfirmations returns confirmation records matching f, newest first.
func (r *AuditRepo) ListConfirmations(ctx context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error) {
	where, args := filterClause(f, "screening_id", "actor_id", "created_at")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reservation_id, reservation_code, ticket_code, screening_id, actor_id, actor_role, total_price, created_at
		 FROM confirmation_records WHERE 1=1`+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ConfirmationRecord{}
	for rows.Next() {
		var rec model.ConfirmationRecord
		if err := rows.Scan(&rec.ID, &rec.ReservationID, &rec.ReservationCode, &rec.TicketCode, &rec.ScreeningID, &rec.ActorID, &rec.ActorRole, &rec.TotalPrice, &rec.At); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
