package seating

import (
	"context"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// StateReader exposes the stored seat states of a screening. Seats without
// a stored state are Available.
type StateReader interface {
	SeatStates(ctx context.Context, screeningID uint64) (map[uint64]model.SeatStatus, error)
}

// ScreeningSource resolves a screening to learn which room it plays in.
type ScreeningSource interface {
	Screening(ctx context.Context, id uint64) (model.Screening, error)
}

// SeatView is one entry of a seat map.
type SeatView struct {
	model.Seat
	Status model.SeatStatus `json:"estado"`
}

// View builds seat maps. A snapshot is advisory: it takes no lock and can
// be stale by the time a reservation is attempted.
type View struct {
	states     StateReader
	screenings ScreeningSource
}

func NewView(states StateReader, screenings ScreeningSource) *View {
	return &View{states: states, screenings: screenings}
}

// Snapshot returns all 70 seats of the screening's room with their status,
// in row-major order.
func (v *View) Snapshot(ctx context.Context, screeningID uint64) ([]SeatView, error) {
	scr, err := v.screenings.Screening(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	states, err := v.states.SeatStates(ctx, screeningID)
	if err != nil {
		return nil, errs.Wrap(err, "load seat states")
	}
	return Overlay(scr.RoomID, states)
}

// Overlay merges stored states onto the room layout. A stored state for a
// seat outside the room is an integrity fault.
func Overlay(roomID uint64, states map[uint64]model.SeatStatus) ([]SeatView, error) {
	layout := Generate(roomID)
	if layout == nil {
		return nil, errs.Newf(errs.CodeIntegrityFault, "screening has no room")
	}
	for id := range states {
		if _, ok := Lookup(roomID, id); !ok {
			return nil, errs.Integrity(nil, "seat %d has a state but is not in room %d", id, roomID)
		}
	}
	out := make([]SeatView, len(layout))
	for i, s := range layout {
		st, ok := states[s.ID]
		if !ok {
			st = model.SeatAvailable
		}
		out[i] = SeatView{Seat: s, Status: st}
	}
	return out, nil
}
