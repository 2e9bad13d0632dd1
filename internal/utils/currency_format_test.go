package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPesewas(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{amount: 0, want: "0.00"},
		{amount: 5, want: "0.05"},
		{amount: 1250, want: "12.50"},
		{amount: 4500, want: "45.00"},
		{amount: -2000, want: "-20.00"},
		{amount: 100000000, want: "1000000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPesewas(tt.amount))
	}
}

func TestParseCedis(t *testing.T) {
	got, err := ParseCedis("12.5")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), got)

	got, err = ParseCedis("45")
	require.NoError(t, err)
	assert.Equal(t, int64(4500), got)

	got, err = ParseCedis("-0.05")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), got)

	_, err = ParseCedis("1.234")
	assert.Error(t, err, "three decimal places is not a representable pesewa amount")

	_, err = ParseCedis("abc")
	assert.Error(t, err)
}
