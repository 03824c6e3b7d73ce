package model

import "fmt"

// SeatCategory classifies a physical seat. Entry types are only valid on
// seats of a compatible category.
type SeatCategory string

const (
	CategoryNormal     SeatCategory = "Normal"
	CategoryAccessible SeatCategory = "Accessible"
	CategoryCompanion  SeatCategory = "Companion"
)

// SeatStatus is the per-screening state of a seat.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatHeld      SeatStatus = "Held"
	SeatBooked    SeatStatus = "Booked"
)

// Seat describes a physical seat in a room. Seats are generated from the
// fixed room layout and never stored; their ids are derived from the room
// id and position, so the same seat always carries the same id.
//
// Fields:
//
//	ID           - globally unique seat id.
//	RoomID       - room the seat belongs to.
//	Row          - row letter, A to E.
//	Number       - seat number inside the row, 1 to 14.
//	Category     - Normal, Accessible or Companion.
//	PairedSeatID - for Accessible and Companion seats, the id of the
//	               other seat in the pair.
type Seat struct {
	ID           uint64       `json:"seatId"`
	RoomID       uint64       `json:"roomId"`
	Row          string       `json:"fila"`
	Number       uint32       `json:"numero"`
	Category     SeatCategory `json:"tipo"`
	PairedSeatID *uint64      `json:"pairedSeatId,omitempty"`
}

// Label returns the row and number, e.g. "E3".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}
