// Package seating generates the fixed room layout and builds per-screening
// seat maps on top of it.
//
// Every room has five rows (A to E) of fourteen seats. Rows A to D are all
// Normal. Row E starts with four Accessible/Companion pairs (1-2, 3-4, 5-6,
// 7-8, odd seat Accessible, even seat Companion) followed by six Normal
// seats. Seat ids are derived, not stored: (roomID-1)*70 plus the 1-based
// position of the seat in row-major order.
package seating

import (
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

const (
	SeatsPerRow  = 14
	SeatsPerRoom = SeatsPerRow * 5
	// pairedSeats is how many seats at the start of the last row are
	// arranged in Accessible/Companion pairs.
	pairedSeats = 8
)

var rows = [...]string{"A", "B", "C", "D", "E"}

const pairedRow = 4

// Generate returns the 70 seats of a room in row-major order. It is pure:
// calling it twice for the same room yields equal slices. Room ids start
// at 1; Generate returns nil for 0.
func Generate(roomID uint64) []model.Seat {
	if roomID == 0 {
		return nil
	}
	seats := make([]model.Seat, 0, SeatsPerRoom)
	for r := range rows {
		for n := uint32(1); n <= SeatsPerRow; n++ {
			seats = append(seats, seatAt(roomID, r, n))
		}
	}
	return seats
}

// SeatID computes the id of the seat at row/number in a room without
// generating the layout. ok is false for positions outside the layout.
func SeatID(roomID uint64, row string, number uint32) (uint64, bool) {
	r := rowIndex(row)
	if roomID == 0 || r < 0 || number < 1 || number > SeatsPerRow {
		return 0, false
	}
	return idAt(roomID, r, number), true
}

// Lookup returns the seat with the given id, provided it belongs to roomID.
func Lookup(roomID, seatID uint64) (model.Seat, bool) {
	s, ok := Locate(seatID)
	if !ok || s.RoomID != roomID {
		return model.Seat{}, false
	}
	return s, true
}

// Locate resolves a seat id back to its room and position.
func Locate(seatID uint64) (model.Seat, bool) {
	if seatID == 0 {
		return model.Seat{}, false
	}
	idx := seatID - 1
	roomID := idx/SeatsPerRoom + 1
	pos := idx % SeatsPerRoom
	return seatAt(roomID, int(pos/SeatsPerRow), uint32(pos%SeatsPerRow)+1), true
}

// LabelOf returns the "E3" style label of a seat id, or "" if invalid.
func LabelOf(seatID uint64) string {
	s, ok := Locate(seatID)
	if !ok {
		return ""
	}
	return s.Label()
}

func seatAt(roomID uint64, r int, number uint32) model.Seat {
	s := model.Seat{
		ID:       idAt(roomID, r, number),
		RoomID:   roomID,
		Row:      rows[r],
		Number:   number,
		Category: model.CategoryNormal,
	}
	if r == pairedRow && number <= pairedSeats {
		var partner uint64
		if number%2 == 1 {
			s.Category = model.CategoryAccessible
			partner = s.ID + 1
		} else {
			s.Category = model.CategoryCompanion
			partner = s.ID - 1
		}
		s.PairedSeatID = &partner
	}
	return s
}

func idAt(roomID uint64, r int, number uint32) uint64 {
	return (roomID-1)*SeatsPerRoom + uint64(r)*SeatsPerRow + uint64(number)
}

func rowIndex(row string) int {
	for i, l := range rows {
		if l == row {
			return i
		}
	}
	return -1
}
