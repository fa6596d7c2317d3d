package plot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCandleIndex_Locate(t *testing.T) {
	index := newCandleIndex([]Candle{
		{Time: t0},
		{Time: t0.Add(time.Hour)},
		{Time: t0.Add(2 * time.Hour)},
	})

	tt := []struct {
		at       time.Time
		expected int
		found    bool
	}{
		{t0, 0, true},
		{t0.Add(59 * time.Minute), 0, true},
		{t0.Add(time.Hour), 1, true},
		{t0.Add(90 * time.Minute), 1, true},
		{t0.Add(48 * time.Hour), 2, true},
		{t0.Add(-time.Second), 0, false},
	}

	for _, tc := range tt {
		i, found := index.locate(tc.at)
		require.Equal(t, tc.found, found, tc.at)
		require.Equal(t, tc.expected, i, tc.at)
	}
}

func TestCandleIndex_Empty(t *testing.T) {
	_, found := newCandleIndex(nil).locate(t0)
	require.False(t, found)
}

func TestColumn(t *testing.T) {
	type row struct {
		Name  string
		Value *float64
	}

	one := 1.0
	rows := []row{{Name: "a", Value: &one}, {Name: "b"}}

	require.Equal(t, []string{"a", "b"}, Column(rows, func(r row) string { return r.Name }))
	require.Equal(t, []*float64{&one, nil}, Column(rows, func(r row) *float64 { return r.Value }))
	require.Empty(t, Column([]row{}, func(r row) string { return r.Name }))
}
