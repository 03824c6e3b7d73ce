package queue

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

func sampleReservation() *model.Reservation {
	return &model.Reservation{
		ID:          42,
		Code:        model.ReservationCode(42),
		ClientID:    7,
		ClientName:  "Ana Torres",
		ScreeningID: 3,
		Status:      model.StatusCancelled,
		TotalPrice:  decimal.RequireFromString("54"),
		Lines: []model.ReservationLine{
			{SeatID: 1, EntryTypeID: 1, UnitPrice: decimal.RequireFromString("29")},
			{SeatID: 2, EntryTypeID: 2, UnitPrice: decimal.RequireFromString("25")},
		},
		CancelReason: "Cliente no llegó",
	}
}

func TestNewReservationEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	ev := NewReservationEvent(EventCancelled, sampleReservation(), model.Actor{ID: 5, Role: "Supervisor"}, at)

	assert.Equal(t, "RES-00042", ev.ReservationCode)
	assert.Equal(t, []string{"A1", "A2"}, ev.Seats)
	assert.Equal(t, "54.00", ev.TotalPrice)
	assert.Equal(t, "2026-03-01T18:00:00Z", ev.OccurredAt)
	assert.Equal(t, "Cliente no llegó", ev.Reason)
}

func TestFormatLine(t *testing.T) {
	ev := NewReservationEvent(EventCancelled, sampleReservation(), model.Actor{ID: 5, Role: "Supervisor"}, time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))

	line := FormatLine(ev)
	assert.Equal(t,
		"[2026-03-01T18:00:00Z] reservation.cancelled | reservation=RES-00042 | screening_id=3 | client=\"Ana Torres\" | seats=[A1,A2] | total=54.00 | actor_id=5 | role=Supervisor | reason=\"Cliente no llegó\"\n",
		line)
}

func TestAuditConsumer_HandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	c := NewAuditConsumer("", path, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ev := NewReservationEvent(EventExpired, sampleReservation(), model.Actor{}, time.Now())
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, c.handle(body))
	require.NoError(t, c.handle(body))
	require.Error(t, c.handle([]byte("{")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatLine(ev)+FormatLine(ev), string(data))
}
