package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScreeningScheduled is the catalog status of a screening that still sells
// seats.
const ScreeningScheduled = "Programada"

// Screening is the read-only view of a scheduled showing of a film in a
// room, as provided by the catalog service.
type Screening struct {
	ID        uint64          `json:"id"`
	RoomID    uint64          `json:"salaId"`
	RoomName  string          `json:"sala"`
	Title     string          `json:"titulo"`
	StartsAt  time.Time       `json:"fechaHora"`
	PriceBase decimal.Decimal `json:"precioBase"`
	Status    string          `json:"estado"`
}

// OnSale reports whether reservations may still be taken.
func (s Screening) OnSale() bool {
	return s.Status == ScreeningScheduled
}

// Client is the read-only view of a box office client.
type Client struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email,omitempty"`
}

// FullName joins first and last name.
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Receipt is what the ticket desk hands to the client after a confirmation
// or a direct sale.
type Receipt struct {
	ReservationID   uint64          `json:"reservaId"`
	ReservationCode string          `json:"codigoReserva"`
	TicketCode      string          `json:"codigoBoleto"`
	ClientName      string          `json:"cliente"`
	Title           string          `json:"pelicula"`
	Room            string          `json:"sala"`
	Showtime        time.Time       `json:"fechaHora"`
	Seats           []string        `json:"asientos"`
	TotalPrice      decimal.Decimal `json:"precioTotal"`
	IssuedAt        time.Time       `json:"fechaEmision"`
}

// NameMatches reports whether prefix starts the name or any word of it,
// ignoring case. It is the matching rule for client name searches.
func NameMatches(name, prefix string) bool {
	name = strings.ToLower(name)
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return false
	}
	if strings.HasPrefix(name, prefix) {
		return true
	}
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' && strings.HasPrefix(name[i+1:], prefix) {
			return true
		}
	}
	return false
}
