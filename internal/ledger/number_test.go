package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLedgerNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{19.9, "19,9"},
		{0.05, "0,05"},
		{120, "120"},
		{0.5, "0,5"},
		{-1.25, "-1,25"},
		{0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ToLedgerNumber(tt.in))
		})
	}
}

func TestFromLedgerNumber(t *testing.T) {
	v, err := FromLedgerNumber("19,90")
	require.NoError(t, err)
	assert.InDelta(t, 19.9, v, 1e-9)

	v, err = FromLedgerNumber("4.8")
	require.NoError(t, err)
	assert.InDelta(t, 4.8, v, 1e-9)

	for _, bad := range []string{"", "  ", "abc", "NaN", "inf"} {
		_, err := FromLedgerNumber(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFromLedgerNumberLossy(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.200,50", 1200.5},
		{"2,35", 2.35},
		{"4.236.759", 4236759},
		{"7", 7},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, FromLedgerNumberLossy(tt.in), 1e-9)
		})
	}
}

func TestRoundTrip_LedgerNumber(t *testing.T) {
	for _, v := range []float64{0.01, 1.5, 25, 1234.56} {
		got, err := FromLedgerNumber(ToLedgerNumber(v))
		require.NoError(t, err)
		assert.InDelta(t, v, got, 1e-9)
	}
}
