package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Actor identifies the staff member behind an operation. Role is recorded
// for the audit trail only.
type Actor struct {
	ID   uint64 `json:"empleadoId"`
	Role string `json:"rol,omitempty"`
}

// CancellationRecord is the append-only audit entry written when a
// reservation is cancelled.
type CancellationRecord struct {
	ID              uint64    `json:"id"`
	ReservationID   uint64    `json:"reservaId"`
	ReservationCode string    `json:"codigoReserva"`
	ScreeningID     uint64    `json:"funcionId"`
	ActorID         uint64    `json:"empleadoId"`
	ActorRole       string    `json:"rol,omitempty"`
	Reason          string    `json:"motivo"`
	At              time.Time `json:"fecha"`
}

// ConfirmationRecord is the append-only audit entry written when a
// reservation is confirmed.
type ConfirmationRecord struct {
	ID              uint64          `json:"id"`
	ReservationID   uint64          `json:"reservaId"`
	ReservationCode string          `json:"codigoReserva"`
	TicketCode      string          `json:"codigoBoleto"`
	ScreeningID     uint64          `json:"funcionId"`
	ActorID         uint64          `json:"empleadoId"`
	ActorRole       string          `json:"rol,omitempty"`
	TotalPrice      decimal.Decimal `json:"precioTotal"`
	At              time.Time       `json:"fecha"`
}

// AuditFilter narrows audit listings. Zero values mean no restriction.
type AuditFilter struct {
	ScreeningID uint64
	ActorID     uint64
	From        *time.Time
	To          *time.Time
}

// Match reports whether a record with the given attributes passes f.
func (f AuditFilter) Match(screeningID, actorID uint64, at time.Time) bool {
	if f.ScreeningID != 0 && f.ScreeningID != screeningID {
		return false
	}
	if f.ActorID != 0 && f.ActorID != actorID {
		return false
	}
	if f.From != nil && at.Before(*f.From) {
		return false
	}
	if f.To != nil && at.After(*f.To) {
		return false
	}
	return true
}
