// Package audit exposes read-only projections over the reservation ledger:
// cancellations, confirmations, active reservations and the seat release
// report of a single reservation.
package audit

import (
	"context"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

// Source is the read side of the ledger's store. Listings are returned
// newest first.
type Source interface {
	Reservation(ctx context.Context, id uint64) (*model.Reservation, error)
	SeatStates(ctx context.Context, screeningID uint64) (map[uint64]model.SeatStatus, error)
	Cancellations(ctx context.Context, f model.AuditFilter) ([]model.CancellationRecord, error)
	Confirmations(ctx context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error)
	ActiveReservations(ctx context.Context, f model.AuditFilter) ([]model.Reservation, error)
}

// Trail answers audit queries. It never writes.
type Trail struct {
	src Source
}

func NewTrail(src Source) *Trail {
	return &Trail{src: src}
}

// ListCancellations returns cancellation records matching f, newest first.
func (t *Trail) ListCancellations(ctx context.Context, f model.AuditFilter) ([]model.CancellationRecord, error) {
	recs, err := t.src.Cancellations(ctx, f)
	return recs, errs.Wrap(err, "list cancellations")
}

// ListConfirmations returns confirmation records matching f, newest first.
func (t *Trail) ListConfirmations(ctx context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error) {
	recs, err := t.src.Confirmations(ctx, f)
	return recs, errs.Wrap(err, "list confirmations")
}

// ListActive returns the Pending and Confirmed reservations matching f,
// newest first. The actor filter applies to the staff member who created
// the reservation.
func (t *Trail) ListActive(ctx context.Context, f model.AuditFilter) ([]model.Reservation, error) {
	rs, err := t.src.ActiveReservations(ctx, f)
	return rs, errs.Wrap(err, "list active reservations")
}

// SeatRelease is the current state of one seat of a reservation.
type SeatRelease struct {
	SeatID   uint64           `json:"seatId"`
	Label    string           `json:"asiento"`
	Status   model.SeatStatus `json:"estado"`
	Released bool             `json:"liberado"`
}

// ReleaseReport compares a reservation's seats with their current state.
type ReleaseReport struct {
	ReservationID   uint64                  `json:"reservaId"`
	ReservationCode string                  `json:"codigoReserva"`
	Status          model.ReservationStatus `json:"estado"`
	Seats           []SeatRelease           `json:"asientos"`
	Released        int                     `json:"liberados"`
	Retained        int                     `json:"retenidos"`
	AllReleased     bool                    `json:"todosLiberados"`
}

// ReleaseReport shows, seat by seat, whether a reservation's seats have
// gone back to Available. For a cancelled or expired reservation every
// seat should be released unless another reservation took it since.
func (t *Trail) ReleaseReport(ctx context.Context, reservationID uint64) (*ReleaseReport, error) {
	r, err := t.src.Reservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	states, err := t.src.SeatStates(ctx, r.ScreeningID)
	if err != nil {
		return nil, errs.Wrap(err, "load seat states")
	}
	rep := &ReleaseReport{
		ReservationID:   r.ID,
		ReservationCode: r.Code,
		Status:          r.Status,
		Seats:           make([]SeatRelease, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		st, ok := states[l.SeatID]
		if !ok {
			st = model.SeatAvailable
		}
		released := st == model.SeatAvailable
		if released {
			rep.Released++
		} else {
			rep.Retained++
		}
		rep.Seats = append(rep.Seats, SeatRelease{
			SeatID:   l.SeatID,
			Label:    seating.LabelOf(l.SeatID),
			Status:   st,
			Released: released,
		})
	}
	rep.AllReleased = rep.Retained == 0
	return rep, nil
}
