package plot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/logger"
	zlog "github.com/raykavin/chartspec/pkg/logger/zerolog"
)

func discardLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := zlog.New(zlog.Config{Level: "error", JSON: true, Output: io.Discard})
	require.NoError(t, err)
	return zlog.NewAdapter(l)
}

type fakeEquity struct{}

func (fakeEquity) EquityValues() []AssetValue {
	return []AssetValue{{Time: t0, Value: 1000}, {Time: t0.Add(time.Hour), Value: 900}}
}

func (fakeEquity) AssetValues(string) []AssetValue {
	return []AssetValue{{Time: t0, Value: 0.1}}
}

func (fakeEquity) MaxDrawdown() (float64, time.Time, time.Time) {
	return 0.1234, t0, t0.Add(time.Hour)
}

type constIndicator struct {
	loaded int
}

func (c *constIndicator) Name() string            { return "Const" }
func (c *constIndicator) Overlay() bool           { return false }
func (c *constIndicator) Warmup() int             { return 0 }
func (c *constIndicator) Load(df *core.Dataframe) { c.loaded = len(df.Close) }
func (c *constIndicator) Metrics() []IndicatorMetric {
	return []IndicatorMetric{{Name: "value", Color: "blue", Style: "line", Values: make([]float64, c.loaded), Time: make([]time.Time, c.loaded)}}
}

func feedCandles(chart *Chart, n int) {
	for i := 0; i < n; i++ {
		chart.OnCandle(core.Candle{
			Pair:     "BTCUSDT",
			Time:     t0.Add(time.Duration(i) * time.Hour),
			Open:     100,
			Close:    101,
			High:     102,
			Low:      99,
			Complete: true,
		})
	}
}

func TestChart_OnCandle(t *testing.T) {
	chart := NewChart(discardLogger(t))
	feedCandles(chart, 3)

	// incomplete and stale candles are ignored
	chart.OnCandle(core.Candle{Pair: "BTCUSDT", Time: t0.Add(5 * time.Hour)})
	chart.OnCandle(core.Candle{Pair: "BTCUSDT", Time: t0, Complete: true})

	payload, err := chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Candles, 3)
	require.Equal(t, "BTC", payload.Asset)
	require.Equal(t, "USDT", payload.Quote)
	require.False(t, chart.LastUpdate().IsZero())
	require.NoError(t, payload.Validate())
}

func TestChart_OrdersPlacedOnCandles(t *testing.T) {
	chart := NewChart(discardLogger(t))
	feedCandles(chart, 3)

	order := filled(1, core.SideTypeBuy, 100)
	order.Pair = "BTCUSDT"
	order.UpdatedAt = t0.Add(90 * time.Minute)
	chart.OnOrder(order)

	early := filled(2, core.SideTypeSell, 100)
	early.Pair = "BTCUSDT"
	early.UpdatedAt = t0.Add(-time.Hour)
	chart.OnOrder(early)

	payload, err := chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Empty(t, payload.Candles[0].Orders)
	require.Len(t, payload.Candles[1].Orders, 1)
	require.Equal(t, int64(1), payload.Candles[1].Orders[0].ID)

	// rendering twice does not duplicate orders
	payload, err = chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Candles[1].Orders, 1)

	// an order update replaces the stored state
	order.Price = 105
	chart.OnOrder(order)
	payload, err = chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Candles[1].Orders, 1)
	require.Equal(t, 105.0, payload.Candles[1].Orders[0].Price)
}

func TestChart_Shapes(t *testing.T) {
	chart := NewChart(discardLogger(t))
	feedCandles(chart, 2)

	stop := core.Order{
		ID: 7, Pair: "BTCUSDT", Side: core.SideTypeSell, Type: core.OrderTypeStopLoss,
		Status: core.OrderStatusTypeNew, Price: 95, RefPrice: 100,
		CreatedAt: t0, UpdatedAt: t0.Add(time.Hour),
	}
	chart.OnOrder(stop)

	payload, err := chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Shapes, 1)
	require.Equal(t, stopRangeColor, payload.Shapes[0].Color)
	require.Equal(t, 100.0, payload.Shapes[0].StartY)
	require.Equal(t, 95.0, payload.Shapes[0].EndY)
}

func TestChart_EquityAndIndicators(t *testing.T) {
	indicator := &constIndicator{}
	chart := NewChart(discardLogger(t), WithEquityProvider(fakeEquity{}), WithCustomIndicators(indicator))
	feedCandles(chart, 4)

	payload, err := chart.Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.EquityValues, 2)
	require.Len(t, payload.AssetValues, 1)
	require.NotNil(t, payload.MaxDrawdown)
	require.Equal(t, Percent("12.3"), payload.MaxDrawdown.Value)

	require.Len(t, payload.Indicators, 1)
	require.Equal(t, "Const", payload.Indicators[0].Name)
	require.Len(t, payload.Indicators[0].Metrics[0].Values, 4)

	spec, err := Compose(payload)
	require.NoError(t, err)
	require.Contains(t, spec.Layout.YAxes, "y3")
}

func TestChart_PairsAndNotFound(t *testing.T) {
	chart := NewChart(discardLogger(t))
	feedCandles(chart, 1)
	chart.OnCandle(core.Candle{Pair: "ETHUSDT", Time: t0, Complete: true})

	pairs, err := chart.Pairs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, pairs)

	_, err = chart.Payload(context.Background(), "XRPUSDT")
	require.ErrorIs(t, err, core.ErrPairNotFound)
}

func TestChart_Subscribe(t *testing.T) {
	chart := NewChart(discardLogger(t))

	var notified []string
	chart.Subscribe(func(pair string) { notified = append(notified, pair) })

	feedCandles(chart, 2)
	chart.OnCandle(core.Candle{Pair: "BTCUSDT", Time: t0.Add(time.Hour), Complete: true})

	require.Equal(t, []string{"BTCUSDT", "BTCUSDT"}, notified)
}

func TestHistoryRows(t *testing.T) {
	buy := filled(1, core.SideTypeBuy, 100)
	sell := filled(2, core.SideTypeSell, 110)
	sell.Profit = 0.1

	rows := historyRows(Payload{
		Candles: []Candle{{Time: t0, Orders: []core.Order{buy}}},
		Orders:  []core.Order{sell},
	})
	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(historyHeader))
	require.Equal(t, "BUY", rows[0][2])
	require.Equal(t, "", rows[0][8])
	require.Equal(t, "0.10", rows[1][8])
}
