package plot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToPrecision(t *testing.T) {
	tt := []struct {
		value    float64
		expected string
	}{
		{0, "0.000"},
		{1, "1.000"},
		{0.5, "0.5000"},
		{123.456, "123.5"},
		{9.99996, "10.00"},
		{0.0012341, "0.001234"},
		{123456, "1.235e+5"},
		{0.00000012346, "1.235e-7"},
		{-2.5, "-2.500"},
	}

	for _, tc := range tt {
		require.Equal(t, tc.expected, toPrecision(tc.value, 4), "%v", tc.value)
	}
}

func TestRoundSignificant(t *testing.T) {
	require.Equal(t, "2", roundSignificant(0.02*100, 2))
	require.Equal(t, "0.46", roundSignificant(0.456, 2))
	require.Equal(t, "120", roundSignificant(123.4, 2))
}

func TestFormatLocale(t *testing.T) {
	require.Equal(t, "95", formatLocale(95))
	require.Equal(t, "1,234,567", formatLocale(1234567))
	require.Equal(t, "0.125", formatLocale(0.125))
}
