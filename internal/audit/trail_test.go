package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

type fakeSource struct {
	reservations map[uint64]*model.Reservation
	states       map[uint64]model.SeatStatus
	cancels      []model.CancellationRecord
	filters      []model.AuditFilter
}

func (f *fakeSource) Reservation(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, errs.Newf(errs.CodeNotFound, "reservation %d", id)
	}
	return r, nil
}

func (f *fakeSource) SeatStates(context.Context, uint64) (map[uint64]model.SeatStatus, error) {
	return f.states, nil
}

func (f *fakeSource) Cancellations(_ context.Context, flt model.AuditFilter) ([]model.CancellationRecord, error) {
	f.filters = append(f.filters, flt)
	return f.cancels, nil
}

func (f *fakeSource) Confirmations(context.Context, model.AuditFilter) ([]model.ConfirmationRecord, error) {
	return nil, nil
}

func (f *fakeSource) ActiveReservations(context.Context, model.AuditFilter) ([]model.Reservation, error) {
	return nil, nil
}

func TestReleaseReport(t *testing.T) {
	src := &fakeSource{
		reservations: map[uint64]*model.Reservation{
			7: {
				ID:          7,
				Code:        "RES-00007",
				ScreeningID: 1,
				Status:      model.StatusCancelled,
				Lines:       []model.ReservationLine{{SeatID: 1}, {SeatID: 2}},
			},
		},
		// A2 was taken again by someone else after the cancellation.
		states: map[uint64]model.SeatStatus{2: model.SeatHeld},
	}
	rep, err := NewTrail(src).ReleaseReport(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "RES-00007", rep.ReservationCode)
	assert.Equal(t, 1, rep.Released)
	assert.Equal(t, 1, rep.Retained)
	assert.False(t, rep.AllReleased)
	require.Len(t, rep.Seats, 2)
	assert.Equal(t, SeatRelease{SeatID: 1, Label: "A1", Status: model.SeatAvailable, Released: true}, rep.Seats[0])
	assert.Equal(t, SeatRelease{SeatID: 2, Label: "A2", Status: model.SeatHeld, Released: false}, rep.Seats[1])

	_, err = NewTrail(src).ReleaseReport(context.Background(), 8)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestListCancellations_PassesFilter(t *testing.T) {
	src := &fakeSource{cancels: []model.CancellationRecord{{ID: 1, Reason: "Cliente no llegó"}}}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	recs, err := NewTrail(src).ListCancellations(context.Background(), model.AuditFilter{ScreeningID: 3, From: &from})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	require.Len(t, src.filters, 1)
	assert.Equal(t, uint64(3), src.filters[0].ScreeningID)
}
