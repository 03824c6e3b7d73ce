package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "Pending"
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
	StatusExpired   ReservationStatus = "Expired"
)

// Active reports whether the reservation still holds or owns seats.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation is a client's claim on up to three seats of one screening.
// Pending reservations hold their seats until ExpiresAt; confirmed ones
// own them until cancelled.
//
// Fields:
//
//	ID            - reservations.id, allocated by the store.
//	Code          - human readable code derived from ID (RES-00042).
//	ClientID      - client the seats are reserved for.
//	ClientName    - client's full name captured at creation, used for search.
//	ScreeningID   - screening being reserved.
//	CreatedBy     - staff member who created it, when known.
//	CreatedAt     - creation time.
//	ExpiresAt     - CreatedAt plus the hold window.
//	Status        - lifecycle state.
//	TotalPrice    - sum of the line prices.
//	Lines         - one line per seat.
//	TicketCode    - ticket code assigned on confirmation.
//	ConfirmedAt/By, CancelledAt/By, CancelReason, ExpiredAt record the
//	terminal transitions.
type Reservation struct {
	ID           uint64            `json:"id"`
	Code         string            `json:"codigoReserva"`
	ClientID     uint64            `json:"clienteId"`
	ClientName   string            `json:"cliente"`
	ScreeningID  uint64            `json:"funcionId"`
	CreatedBy    *uint64           `json:"empleadoId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	Status       ReservationStatus `json:"estado"`
	TotalPrice   decimal.Decimal   `json:"precioTotal"`
	Lines        []ReservationLine `json:"asientos"`
	TicketCode   string            `json:"codigoBoleto,omitempty"`
	ConfirmedAt  *time.Time        `json:"confirmedAt,omitempty"`
	ConfirmedBy  *uint64           `json:"confirmedBy,omitempty"`
	CancelledAt  *time.Time        `json:"cancelledAt,omitempty"`
	CancelledBy  *uint64           `json:"cancelledBy,omitempty"`
	CancelReason string            `json:"motivo,omitempty"`
	ExpiredAt    *time.Time        `json:"expiredAt,omitempty"`
}

// ReservationLine is one seat of a reservation with its entry type and the
// price charged for it.
type ReservationLine struct {
	SeatID      uint64          `json:"seatId"`
	EntryTypeID int             `json:"tipoEntradaId"`
	UnitPrice   decimal.Decimal `json:"precio"`
}

// SeatIDs lists the seats of the reservation in line order.
func (r *Reservation) SeatIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Lines))
	for _, l := range r.Lines {
		ids = append(ids, l.SeatID)
	}
	return ids
}

// Clone returns a deep copy so stores can hand out reservations without
// sharing mutable state.
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	c.Lines = append([]ReservationLine(nil), r.Lines...)
	return &c
}

// ReservationCode formats the public code for a reservation id.
func ReservationCode(id uint64) string {
	return fmt.Sprintf("RES-%05d", id)
}

// TicketCode formats the ticket code issued when a reservation is confirmed.
func TicketCode(id uint64) string {
	return fmt.Sprintf("BOL-%04d", id)
}
