package seating

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

func TestGenerate_Shape(t *testing.T) {
	seats := Generate(1)
	require.Len(t, seats, SeatsPerRoom)

	ids := map[uint64]bool{}
	counts := map[model.SeatCategory]int{}
	for _, s := range seats {
		assert.False(t, ids[s.ID], "duplicate id %d", s.ID)
		ids[s.ID] = true
		counts[s.Category]++
		assert.Equal(t, uint64(1), s.RoomID)
	}
	assert.Equal(t, 62, counts[model.CategoryNormal])
	assert.Equal(t, 4, counts[model.CategoryAccessible])
	assert.Equal(t, 4, counts[model.CategoryCompanion])

	assert.Equal(t, uint64(1), seats[0].ID)
	assert.Equal(t, "A1", seats[0].Label())
	assert.Equal(t, uint64(70), seats[69].ID)
	assert.Equal(t, "E14", seats[69].Label())
}

func TestGenerate_PairsAreSymmetric(t *testing.T) {
	byID := map[uint64]model.Seat{}
	for _, s := range Generate(3) {
		byID[s.ID] = s
	}
	for _, s := range byID {
		if s.Category == model.CategoryNormal {
			assert.Nil(t, s.PairedSeatID, "seat %s", s.Label())
			continue
		}
		require.NotNil(t, s.PairedSeatID, "seat %s", s.Label())
		partner := byID[*s.PairedSeatID]
		require.NotNil(t, partner.PairedSeatID)
		assert.Equal(t, s.ID, *partner.PairedSeatID)
		assert.Equal(t, "E", s.Row)
		if s.Number%2 == 1 {
			assert.Equal(t, model.CategoryAccessible, s.Category)
			assert.Equal(t, model.CategoryCompanion, partner.Category)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	if diff := cmp.Diff(Generate(2), Generate(2)); diff != "" {
		t.Fatalf("layout differs between calls (-first +second):\n%s", diff)
	}
	assert.Nil(t, Generate(0))
}

func TestSeatID_MatchesLayout(t *testing.T) {
	for _, room := range []uint64{1, 2, 7} {
		for _, s := range Generate(room) {
			id, ok := SeatID(room, s.Row, s.Number)
			require.True(t, ok)
			assert.Equal(t, s.ID, id)

			located, ok := Locate(s.ID)
			require.True(t, ok)
			assert.Equal(t, s, located)
		}
	}

	id, ok := SeatID(2, "A", 1)
	require.True(t, ok)
	assert.Equal(t, uint64(71), id)

	_, ok = SeatID(1, "F", 1)
	assert.False(t, ok)
	_, ok = SeatID(1, "A", 15)
	assert.False(t, ok)
}

func TestLookup_RejectsOtherRoom(t *testing.T) {
	_, ok := Lookup(1, 71)
	assert.False(t, ok)

	s, ok := Lookup(2, 71)
	require.True(t, ok)
	assert.Equal(t, "A1", s.Label())
}

func TestOverlay(t *testing.T) {
	views, err := Overlay(1, map[uint64]model.SeatStatus{1: model.SeatHeld, 70: model.SeatBooked})
	require.NoError(t, err)
	require.Len(t, views, SeatsPerRoom)
	assert.Equal(t, model.SeatHeld, views[0].Status)
	assert.Equal(t, model.SeatAvailable, views[1].Status)
	assert.Equal(t, model.SeatBooked, views[69].Status)

	_, err = Overlay(1, map[uint64]model.SeatStatus{71: model.SeatHeld})
	require.Error(t, err)
}
