package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/pricing"
	"github.com/iliyamo/cinema-boxoffice/internal/seating"
)

func seatID(t *testing.T, room uint64, row string, n uint32) uint64 {
	t.Helper()
	id, ok := seating.SeatID(room, row, n)
	require.True(t, ok)
	return id
}

func TestValidate(t *testing.T) {
	v := NewValidator(pricing.NewTable())
	a1, a2, a3, a4 := seatID(t, 1, "A", 1), seatID(t, 1, "A", 2), seatID(t, 1, "A", 3), seatID(t, 1, "A", 4)
	e1, e2 := seatID(t, 1, "E", 1), seatID(t, 1, "E", 2)

	tests := []struct {
		name    string
		items   []Item
		wantErr error
	}{
		{name: "empty", items: nil, wantErr: errs.ErrEmptySelection},
		{name: "four seats", items: []Item{{SeatID: a1, EntryTypeID: pricing.Adult}, {SeatID: a2, EntryTypeID: pricing.Adult}, {SeatID: a3, EntryTypeID: pricing.Adult}, {SeatID: a4, EntryTypeID: pricing.Adult}}, wantErr: errs.ErrTooManySeats},
		{name: "duplicate", items: []Item{{SeatID: a1, EntryTypeID: pricing.Adult}, {SeatID: a1, EntryTypeID: pricing.Child}}, wantErr: errs.ErrDuplicateSeat},
		{name: "seat of another room", items: []Item{{SeatID: seatID(t, 2, "A", 1), EntryTypeID: pricing.Adult}}, wantErr: errs.ErrUnknownSeat},
		{name: "adult on accessible seat", items: []Item{{SeatID: e1, EntryTypeID: pricing.Adult}}, wantErr: errs.ErrIncompatibleEntryType},
		{name: "accessible on normal seat", items: []Item{{SeatID: a1, EntryTypeID: pricing.Accessible}}, wantErr: errs.ErrIncompatibleEntryType},
		{name: "unknown entry type", items: []Item{{SeatID: a1, EntryTypeID: 9}}, wantErr: errs.ErrInvalidEntryType},
		{name: "mixed valid", items: []Item{{SeatID: a1, EntryTypeID: pricing.Adult}, {SeatID: e1, EntryTypeID: pricing.Accessible}, {SeatID: e2, EntryTypeID: pricing.Companion}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats, err := v.Validate(1, tt.items)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, errs.KindValidation, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, seats, len(tt.items))
			for i, s := range seats {
				assert.Equal(t, tt.items[i].SeatID, s.ID)
			}
		})
	}
}

func TestValidate_Labels(t *testing.T) {
	v := NewValidator(pricing.NewTable())
	label := func(row string, n uint32) Item { return Item{Row: row, Number: n, EntryTypeID: pricing.Adult} }

	tests := []struct {
		name    string
		items   []Item
		wantErr error
	}{
		{name: "size is checked before unknown labels", items: []Item{label("A", 1), label("A", 2), label("A", 3), label("Z", 99)}, wantErr: errs.ErrTooManySeats},
		{name: "duplicate is checked before unknown labels", items: []Item{label("Z", 99), label("A", 1), {SeatID: seatID(t, 1, "A", 1), EntryTypeID: pricing.Child}}, wantErr: errs.ErrDuplicateSeat},
		{name: "same unknown label twice", items: []Item{label("Z", 99), label("z", 99)}, wantErr: errs.ErrDuplicateSeat},
		{name: "unknown label", items: []Item{label("A", 1), label("F", 1)}, wantErr: errs.ErrUnknownSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(1, tt.items)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	seats, err := v.Validate(2, []Item{label("b", 7)})
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, seatID(t, 2, "B", 7), seats[0].ID)
}
