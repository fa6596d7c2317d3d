package plot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildDrawdownOverlay_Absent(t *testing.T) {
	overlay, err := BuildDrawdownOverlay(nil, nil)
	require.NoError(t, err)
	require.Nil(t, overlay)
}

func TestBuildDrawdownOverlay_Example(t *testing.T) {
	start := t0
	end := t0.Add(10 * time.Hour)
	equity := []AssetValue{
		{Time: t0, Value: 800},
		{Time: t0.Add(time.Hour), Value: 1000},
		{Time: t0.Add(2 * time.Hour), Value: 600},
	}

	overlay, err := BuildDrawdownOverlay(&Drawdown{Start: start, End: end, Value: "12.5"}, equity)
	require.NoError(t, err)
	require.NotNil(t, overlay)

	shape := overlay.Shape
	require.Equal(t, "rect", shape.Type)
	require.Equal(t, start, shape.X0)
	require.Equal(t, end, shape.X1)
	require.Equal(t, 0.0, shape.Y0)
	require.Equal(t, 1000.0, shape.Y1)
	require.Equal(t, "y1", shape.YRef)
	require.Equal(t, "below", shape.Layer)
	require.Equal(t, "rgba(255,0,0,0.2)", shape.FillColor)

	annotation := overlay.Annotation
	require.Equal(t, t0.Add(5*time.Hour), annotation.X)
	require.Equal(t, 500.0, annotation.Y)
	require.Contains(t, annotation.Text, "12.5")
	require.False(t, annotation.ShowArrow)
	require.Nil(t, annotation.AY)
	require.Equal(t, "red", annotation.Font.Color)
}

func TestBuildDrawdownOverlay_Preconditions(t *testing.T) {
	_, err := BuildDrawdownOverlay(&Drawdown{Start: t0, End: t0}, nil)
	require.ErrorIs(t, err, ErrEmptyEquity)

	_, err = BuildDrawdownOverlay(&Drawdown{Start: t0, End: t0.Add(-time.Hour)}, []AssetValue{{Value: 1}})
	require.ErrorIs(t, err, ErrInvalidPayload)
}
