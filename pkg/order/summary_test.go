package order

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/raykavin/chartspec/pkg/core"
)

func closed(side core.SideType, profit float64) core.Order {
	return core.Order{
		Pair:     "BTCUSDT",
		Side:     side,
		Status:   core.OrderStatusTypeFilled,
		Price:    100,
		Quantity: 1,
		Profit:   profit,
	}
}

func TestSummarize(t *testing.T) {
	pending := closed(core.SideTypeSell, 0.5)
	pending.Status = core.OrderStatusTypeNew

	summary := Summarize("BTCUSDT", []core.Order{
		closed(core.SideTypeBuy, 0),
		closed(core.SideTypeSell, 0.1),
		closed(core.SideTypeSell, -0.05),
		closed(core.SideTypeBuy, 0.2),
		pending,
	})

	require.Equal(t, []float64{0.1}, summary.WinLong)
	require.Equal(t, []float64{0.2}, summary.WinShort)
	require.Equal(t, []float64{-0.05}, summary.LoseLong)
	require.Empty(t, summary.LoseShort)
	require.Equal(t, 400.0, summary.Volume)

	assert.InDelta(t, 0.25, summary.Profit(), 1e-9)
	assert.InDelta(t, 66.67, summary.WinPercentage(), 0.01)
	assert.InDelta(t, 3.0, summary.Payoff(), 1e-9)
	assert.InDelta(t, 6.0, summary.ProfitFactor(), 1e-9)
	assert.Greater(t, summary.SQN(), 0.0)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize("BTCUSDT", nil)
	require.Zero(t, summary.Profit())
	require.Zero(t, summary.WinPercentage())
	require.Zero(t, summary.Payoff())
	require.Zero(t, summary.ProfitFactor())
	require.Zero(t, summary.SQN())
}

func TestTradeSummary_Render(t *testing.T) {
	out := bytes.NewBuffer(nil)
	Summarize("BTCUSDT", []core.Order{closed(core.SideTypeSell, 0.1)}).Render(out)

	require.Contains(t, out.String(), "BTCUSDT")
	require.Contains(t, out.String(), "10.00%")
	require.Contains(t, out.String(), "100.0000 USDT")
}

func TestTradeSummary_RenderHistogram(t *testing.T) {
	out := bytes.NewBuffer(nil)
	require.NoError(t, Summarize("BTCUSDT", nil).RenderHistogram(out))
	require.Empty(t, out.String())

	summary := Summarize("BTCUSDT", []core.Order{
		closed(core.SideTypeSell, 0.1),
		closed(core.SideTypeSell, -0.02),
		closed(core.SideTypeBuy, 0.04),
	})
	require.NoError(t, summary.RenderHistogram(out))
	require.NotEmpty(t, out.String())
}

func TestBootstrap(t *testing.T) {
	values := []float64{0.1, -0.05, 0.2, 0.03, -0.01, 0.07}
	interval := Bootstrap(values, func(s []float64) float64 { return stat.Mean(s, nil) }, 500, 0.95)

	require.LessOrEqual(t, interval.Lower, interval.Mean)
	require.GreaterOrEqual(t, interval.Upper, interval.Mean)
	require.GreaterOrEqual(t, interval.Lower, -0.05)
	require.LessOrEqual(t, interval.Upper, 0.2)

	require.Equal(t, Interval{}, Bootstrap(nil, nil, 10, 0.95))
}
