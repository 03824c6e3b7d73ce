// Package queue publishes reservation lifecycle events to RabbitMQ and
// consumes them into an append-only audit log file.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

// Event types, also used as routing keys on the events exchange.
const (
	EventConfirmed = "reservation.confirmed"
	EventCancelled = "reservation.cancelled"
	EventExpired   = "reservation.expired"
)

// ReservationEvent is published after a reservation reaches a new state.
// It carries enough for downstream consumers to log or notify without
// querying the ledger.
type ReservationEvent struct {
	Type            string   `json:"type"`
	ReservationID   uint64   `json:"reservation_id"`
	ReservationCode string   `json:"reservation_code"`
	ScreeningID     uint64   `json:"screening_id"`
	ClientID        uint64   `json:"client_id"`
	ClientName      string   `json:"client_name"`
	ActorID         uint64   `json:"actor_id,omitempty"`
	ActorRole       string   `json:"actor_role,omitempty"`
	Seats           []string `json:"seats"`
	TotalPrice      string   `json:"total_price"`
	TicketCode      string   `json:"ticket_code,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	OccurredAt      string   `json:"occurred_at"`
}

// NewReservationEvent snapshots r into an event of the given type.
func NewReservationEvent(typ string, r *model.Reservation, actor model.Actor, at time.Time) ReservationEvent {
	seats := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		seats = append(seats, seating.LabelOf(l.SeatID))
	}
	return ReservationEvent{
		Type:            typ,
		ReservationID:   r.ID,
		ReservationCode: r.Code,
		ScreeningID:     r.ScreeningID,
		ClientID:        r.ClientID,
		ClientName:      r.ClientName,
		ActorID:         actor.ID,
		ActorRole:       actor.Role,
		Seats:           seats,
		TotalPrice:      r.TotalPrice.StringFixed(2),
		TicketCode:      r.TicketCode,
		Reason:          r.CancelReason,
		OccurredAt:      at.UTC().Format(time.RFC3339),
	}
}
