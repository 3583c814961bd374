package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{name: "dollar prefix", raw: "$15.99", want: 15.99, ok: true},
		{name: "bare number", raw: "15.99", want: 15.99, ok: true},
		{name: "dollar with space", raw: "$ 15.99", want: 15.99, ok: true},
		{name: "integer", raw: "12", want: 12, ok: true},
		{name: "range keeps first", raw: "12.99 - 15.99", want: 12.99, ok: true},
		{name: "thousands separator", raw: "$1,299.00", want: 1299, ok: true},
		{name: "trailing text", raw: "9.50 per person", want: 9.5, ok: true},
		{name: "no number", raw: "market price", ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.001)
		})
	}
}

func TestParsePrice_Idempotent(t *testing.T) {
	// A value that already parsed cleanly parses to the same number again.
	first := ParsePrice("$15.99")
	require.NotNil(t, first)

	second := ParsePrice("15.99")
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}
