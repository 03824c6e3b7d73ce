package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf_MatchesSentinelByCode(t *testing.T) {
	err := Newf(CodeSeatUnavailable, "seats %v are held", []string{"A1"})

	assert.True(t, Is(err, ErrSeatUnavailable))
	assert.True(t, errors.Is(err, ErrSeatUnavailable))
	assert.False(t, Is(err, ErrNotFound))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, CodeSeatUnavailable, CodeOf(err))
}

func TestWrap_KeepsCode(t *testing.T) {
	err := Wrap(Newf(CodeNotFound, "reservation 7"), "confirm")

	require.Error(t, err)
	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Newf(CodeTooManySeats, "4 seats"), want: KindValidation},
		{name: "expiry", err: Newf(CodeReservationExpired, "RES-00001"), want: KindExpiry},
		{name: "integrity", err: Integrity(errors.New("row missing"), "seat 3"), want: KindIntegrity},
		{name: "plain error is internal", err: errors.New("boom"), want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestExtractStackLines(t *testing.T) {
	lines := ExtractStackLines(Newf(CodeInternal, "x"), 3)
	assert.LessOrEqual(t, len(lines), 3)
	assert.Nil(t, ExtractStackLines(nil, 3))
}
