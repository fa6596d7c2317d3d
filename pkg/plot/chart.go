package plot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/exchange"
	"github.com/raykavin/chartspec/pkg/logger"
)

// EquityProvider exposes the wallet history of a run, e.g. a paper wallet
type EquityProvider interface {
	EquityValues() []AssetValue
	AssetValues(asset string) []AssetValue
	MaxDrawdown() (value float64, start, end time.Time)
}

// Chart collects candles and orders of a running bot or backtest and serves
// them as payloads
type Chart struct {
	sync.Mutex
	candles         map[string][]Candle
	dataframe       map[string]*core.Dataframe
	ordersIDsByPair map[string]*set.LinkedHashSetINT64
	orderByID       map[int64]core.Order
	indicators      []Indicator
	equity          EquityProvider
	subscribers     []func(pair string)
	lastUpdate      time.Time
	log             logger.Logger
}

var (
	_ core.CandleSubscriber = (*Chart)(nil)
	_ core.OrderSubscriber  = (*Chart)(nil)
	_ PayloadSource         = (*Chart)(nil)
)

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithEquityProvider sets where equity, position and drawdown come from
func WithEquityProvider(provider EquityProvider) Option {
	return func(chart *Chart) {
		chart.equity = provider
	}
}

// WithCustomIndicators adds custom indicators to the chart
func WithCustomIndicators(indicators ...Indicator) Option {
	return func(chart *Chart) {
		chart.indicators = indicators
	}
}

// NewChart creates a new chart instance with the provided options
func NewChart(log logger.Logger, options ...Option) *Chart {
	chart := &Chart{
		log:             log,
		candles:         make(map[string][]Candle),
		dataframe:       make(map[string]*core.Dataframe),
		ordersIDsByPair: make(map[string]*set.LinkedHashSetINT64),
		orderByID:       make(map[int64]core.Order),
	}

	for _, option := range options {
		option(chart)
	}

	return chart
}

// Subscribe registers fn to be called with the pair after every stored candle or order
func (c *Chart) Subscribe(fn func(pair string)) {
	c.Lock()
	defer c.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Chart) notify(pair string, subscribers []func(string)) {
	for _, fn := range subscribers {
		fn(pair)
	}
}

// LastUpdate returns when the last completed candle arrived
func (c *Chart) LastUpdate() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.lastUpdate
}

// OnCandle stores completed candles newer than the latest one of the pair
func (c *Chart) OnCandle(candle core.Candle) {
	c.Lock()

	if _, ok := c.candles[candle.Pair]; !ok {
		c.candles[candle.Pair] = make([]Candle, 0)
		c.ordersIDsByPair[candle.Pair] = set.NewLinkedHashSetINT64()
	}

	candles := c.candles[candle.Pair]
	if !candle.Complete || (len(candles) > 0 && !candle.Time.After(candles[len(candles)-1].Time)) {
		c.Unlock()
		return
	}

	c.candles[candle.Pair] = append(candles, Candle{
		Time:   candle.Time,
		Open:   candle.Open,
		Close:  candle.Close,
		High:   candle.High,
		Low:    candle.Low,
		Volume: candle.Volume,
		Orders: make([]core.Order, 0),
	})

	if c.dataframe[candle.Pair] == nil {
		c.dataframe[candle.Pair] = &core.Dataframe{
			Pair:     candle.Pair,
			Metadata: make(map[string]core.Series[float64]),
		}
	}
	c.dataframe[candle.Pair].Append(candle)
	c.lastUpdate = time.Now()

	subscribers := c.subscribers
	c.Unlock()

	c.notify(candle.Pair, subscribers)
}

// OnOrder stores a new order or the latest state of a known one
func (c *Chart) OnOrder(order core.Order) {
	c.Lock()

	if c.ordersIDsByPair[order.Pair] == nil {
		c.ordersIDsByPair[order.Pair] = set.NewLinkedHashSetINT64()
	}

	c.ordersIDsByPair[order.Pair].Add(order.ID)
	c.orderByID[order.ID] = order

	subscribers := c.subscribers
	c.Unlock()

	c.log.WithField("pair", order.Pair).Debugf("chart received order %d (%s)", order.ID, order.Status)
	c.notify(order.Pair, subscribers)
}

// Pairs implements PayloadSource
func (c *Chart) Pairs(_ context.Context) ([]string, error) {
	c.Lock()
	defer c.Unlock()

	pairs := make([]string, 0, len(c.candles))
	for pair := range c.candles {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	return pairs, nil
}

// Payload implements PayloadSource
func (c *Chart) Payload(_ context.Context, pair string) (Payload, error) {
	asset, quote := exchange.SplitAssetQuote(pair)

	c.Lock()
	defer c.Unlock()

	if _, ok := c.candles[pair]; !ok {
		return Payload{}, fmt.Errorf("%s: %w", pair, core.ErrPairNotFound)
	}

	payload := Payload{
		Candles:      c.candlesByPair(pair),
		Indicators:   c.indicatorsByPair(pair),
		Shapes:       c.shapesByPair(pair),
		Quote:        quote,
		Asset:        asset,
		EquityValues: make([]AssetValue, 0),
		AssetValues:  make([]AssetValue, 0),
	}

	if c.equity != nil {
		payload.EquityValues = append(payload.EquityValues, c.equity.EquityValues()...)
		payload.AssetValues = append(payload.AssetValues, c.equity.AssetValues(asset)...)

		if len(payload.EquityValues) > 0 {
			value, start, end := c.equity.MaxDrawdown()
			payload.MaxDrawdown = &Drawdown{
				Start: start,
				End:   end,
				Value: Percent(fmt.Sprintf("%.1f", value*100)),
			}
		}
	}

	return payload, nil
}
