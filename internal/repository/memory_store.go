package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

type seatKey struct {
	screeningID uint64
	seatID      uint64
}

type seatState struct {
	status        model.SeatStatus
	reservationID uint64
}

// MemoryStore keeps the whole ledger in process memory. It backs tests and
// single instance deployments that can afford to lose state on restart.
// Atomic units are staged and applied only when the callback succeeds.
type MemoryStore struct {
	mu            sync.RWMutex
	lastID        uint64
	reservations  map[uint64]*model.Reservation
	codes         map[string]uint64
	seats         map[seatKey]seatState
	cancellations []model.CancellationRecord
	confirmations []model.ConfirmationRecord
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reservations: make(map[uint64]*model.Reservation),
		codes:        make(map[string]uint64),
		seats:        make(map[seatKey]seatState),
	}
}

// Atomic runs fn against a staged view of the store and applies its writes
// only if fn returns nil. Units are serialised by the store mutex.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		s:            s,
		lastID:       s.lastID,
		reservations: make(map[uint64]*model.Reservation),
		seats:        make(map[seatKey]seatState),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

func (s *MemoryStore) Reservation(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, errs.Newf(errs.CodeNotFound, "reservation %d not found", id)
	}
	return r.Clone(), nil
}

func (s *MemoryStore) ReservationByCode(_ context.Context, code string) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codes[code]
	if !ok {
		return nil, errs.Newf(errs.CodeNotFound, "reservation %s not found", code)
	}
	return s.reservations[id].Clone(), nil
}

func (s *MemoryStore) SearchByClientName(_ context.Context, prefix string) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if model.NameMatches(r.ClientName, prefix) {
			out = append(out, *r.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) DuePending(_ context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.Status == model.StatusPending && now.After(r.ExpiresAt) {
			out = append(out, *r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SeatStates returns the non-Available seats of a screening. It takes no
// lock beyond the store's read lock.
func (s *MemoryStore) SeatStates(_ context.Context, screeningID uint64) (map[uint64]model.SeatStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint64]model.SeatStatus)
	for k, st := range s.seats {
		if k.screeningID == screeningID {
			out[k.seatID] = st.status
		}
	}
	return out, nil
}

func (s *MemoryStore) Cancellations(_ context.Context, f model.AuditFilter) ([]model.CancellationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CancellationRecord, 0)
	for _, rec := range s.cancellations {
		if f.Match(rec.ScreeningID, rec.ActorID, rec.At) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out, nil
}

func (s *MemoryStore) Confirmations(_ context.Context, f model.AuditFilter) ([]model.ConfirmationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ConfirmationRecord, 0)
	for _, rec := range s.confirmations {
		if f.Match(rec.ScreeningID, rec.ActorID, rec.At) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out, nil
}

// ActiveReservations lists Pending and Confirmed reservations. The actor
// filter matches the staff member who created the reservation.
func (s *MemoryStore) ActiveReservations(_ context.Context, f model.AuditFilter) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if !r.Status.Active() {
			continue
		}
		var creator uint64
		if r.CreatedBy != nil {
			creator = *r.CreatedBy
		}
		if f.Match(r.ScreeningID, creator, r.CreatedAt) {
			out = append(out, *r.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rs []model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}

// memTx stages writes on top of the store. The store mutex is held for
// the whole unit, so reads of the base maps are safe.
type memTx struct {
	s             *MemoryStore
	lastID        uint64
	reservations  map[uint64]*model.Reservation
	seats         map[seatKey]seatState
	cancellations []model.CancellationRecord
	confirmations []model.ConfirmationRecord
}

func (t *memTx) Reservation(_ context.Context, id uint64) (*model.Reservation, error) {
	if r, ok := t.reservations[id]; ok {
		return r.Clone(), nil
	}
	if r, ok := t.s.reservations[id]; ok {
		return r.Clone(), nil
	}
	return nil, errs.Newf(errs.CodeNotFound, "reservation %d not found", id)
}

func (t *memTx) SeatStates(_ context.Context, screeningID uint64, seatIDs []uint64) (map[uint64]model.SeatStatus, error) {
	out := make(map[uint64]model.SeatStatus, len(seatIDs))
	for _, id := range seatIDs {
		k := seatKey{screeningID, id}
		st, ok := t.seats[k]
		if !ok {
			st, ok = t.s.seats[k]
		}
		if ok {
			out[id] = st.status
		} else {
			out[id] = model.SeatAvailable
		}
	}
	return out, nil
}

func (t *memTx) SetSeatStatus(_ context.Context, screeningID uint64, seatIDs []uint64, status model.SeatStatus, reservationID uint64) error {
	for _, id := range seatIDs {
		t.seats[seatKey{screeningID, id}] = seatState{status: status, reservationID: reservationID}
	}
	return nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
	t.lastID++
	r.ID = t.lastID
	r.Code = model.ReservationCode(r.ID)
	t.reservations[r.ID] = r.Clone()
	return nil
}

func (t *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if _, ok := t.reservations[r.ID]; !ok {
		if _, ok := t.s.reservations[r.ID]; !ok {
			return errs.Newf(errs.CodeNotFound, "reservation %d not found", r.ID)
		}
	}
	t.reservations[r.ID] = r.Clone()
	return nil
}

func (t *memTx) AppendCancellation(_ context.Context, rec *model.CancellationRecord) error {
	rec.ID = uint64(len(t.s.cancellations) + len(t.cancellations) + 1)
	t.cancellations = append(t.cancellations, *rec)
	return nil
}

func (t *memTx) AppendConfirmation(_ context.Context, rec *model.ConfirmationRecord) error {
	rec.ID = uint64(len(t.s.confirmations) + len(t.confirmations) + 1)
	t.confirmations = append(t.confirmations, *rec)
	return nil
}

func (t *memTx) apply() {
	s := t.s
	s.lastID = t.lastID
	for id, r := range t.reservations {
		s.reservations[id] = r
		s.codes[r.Code] = id
	}
	for k, st := range t.seats {
		if st.status == model.SeatAvailable {
			delete(s.seats, k)
			continue
		}
		s.seats[k] = st
	}
	s.cancellations = append(s.cancellations, t.cancellations...)
	s.confirmations = append(s.confirmations, t.confirmations...)
}
