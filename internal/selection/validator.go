// Package selection validates a requested set of seats before any lock is
// taken or state is read.
package selection

import (
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/pricing"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

// MaxSeats is the most seats one reservation may hold.
const MaxSeats = 3

// Item is one requested seat with the entry type it is sold as. The seat
// is named by SeatID or, when SeatID is zero, by Row and Number.
type Item struct {
	SeatID      uint64
	Row         string
	Number      uint32
	EntryTypeID int
}

// Validator checks selections against the room layout and the pricing
// table. It is stateless.
type Validator struct {
	prices *pricing.Table
}

func NewValidator(prices *pricing.Table) *Validator {
	return &Validator{prices: prices}
}

// Validate checks the selection for a screening in roomID and returns the
// resolved seats in request order. Rules are applied in order: non-empty,
// at most MaxSeats, no duplicate seat, every seat in the room, and every
// entry type compatible with its seat's category.
func (v *Validator) Validate(roomID uint64, items []Item) ([]model.Seat, error) {
	if len(items) == 0 {
		return nil, errs.Newf(errs.CodeEmptySelection, "select at least one seat")
	}
	if len(items) > MaxSeats {
		return nil, errs.Newf(errs.CodeTooManySeats, "at most %d seats per reservation, got %d", MaxSeats, len(items))
	}
	ids := make([]uint64, len(items))
	seen := make(map[uint64]struct{}, len(items))
	seenLabels := make(map[string]struct{}, len(items))
	for i, it := range items {
		id, label := resolve(roomID, it)
		ids[i] = id
		if id == 0 {
			if _, dup := seenLabels[label]; dup {
				return nil, errs.Newf(errs.CodeDuplicateSeat, "seat %s selected twice", label)
			}
			seenLabels[label] = struct{}{}
			continue
		}
		if _, dup := seen[id]; dup {
			return nil, errs.Newf(errs.CodeDuplicateSeat, "seat %d selected twice", id)
		}
		seen[id] = struct{}{}
	}
	seats := make([]model.Seat, 0, len(items))
	for i, it := range items {
		if ids[i] == 0 {
			_, label := resolve(roomID, it)
			return nil, errs.Newf(errs.CodeUnknownSeat, "seat %s does not exist", label)
		}
		seat, ok := seating.Lookup(roomID, ids[i])
		if !ok {
			return nil, errs.Newf(errs.CodeUnknownSeat, "seat %d is not in room %d", ids[i], roomID)
		}
		if _, err := v.prices.EntryType(it.EntryTypeID); err != nil {
			return nil, err
		}
		if !v.prices.Compatible(it.EntryTypeID, seat.Category) {
			return nil, errs.Newf(errs.CodeIncompatibleEntryType, "entry type %d cannot be sold on %s seat %s", it.EntryTypeID, seat.Category, seat.Label())
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

// resolve returns the seat id of it, or 0 and a printable label when a
// row and number name no seat of the room.
func resolve(roomID uint64, it Item) (uint64, string) {
	if it.SeatID != 0 {
		return it.SeatID, ""
	}
	row := strings.ToUpper(strings.TrimSpace(it.Row))
	if id, ok := seating.SeatID(roomID, row, it.Number); ok {
		return id, ""
	}
	return 0, fmt.Sprintf("%s%d", row, it.Number)
}
