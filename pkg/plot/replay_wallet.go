package plot

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/exchange"
)

// ReplayWallet rebuilds the wallet history of a finished run from its candles
// and filled orders. Buys spend quote at the order price and sells return it;
// holdings are valued at the close of each candle.
type ReplayWallet struct {
	sync.RWMutex
	balance float64
	candles map[string][]core.Candle
	orders  map[int64]core.Order
}

var (
	_ EquityProvider       = (*ReplayWallet)(nil)
	_ core.CandleSubscriber = (*ReplayWallet)(nil)
	_ core.OrderSubscriber  = (*ReplayWallet)(nil)
)

// NewReplayWallet starts a wallet holding balance in quote currency
func NewReplayWallet(balance float64) *ReplayWallet {
	return &ReplayWallet{
		balance: balance,
		candles: make(map[string][]core.Candle),
		orders:  make(map[int64]core.Order),
	}
}

// OnCandle records completed candles newer than the latest one of the pair
func (w *ReplayWallet) OnCandle(candle core.Candle) {
	w.Lock()
	defer w.Unlock()

	candles := w.candles[candle.Pair]
	if !candle.Complete || (len(candles) > 0 && !candle.Time.After(candles[len(candles)-1].Time)) {
		return
	}
	w.candles[candle.Pair] = append(candles, candle)
}

// OnOrder records the latest state of an order
func (w *ReplayWallet) OnOrder(order core.Order) {
	w.Lock()
	defer w.Unlock()
	w.orders[order.ID] = order
}

// EquityValues returns the quote balance plus holdings at every candle time
func (w *ReplayWallet) EquityValues() []AssetValue {
	w.RLock()
	defer w.RUnlock()
	equity, _ := w.history()
	return equity
}

// AssetValues returns the value of the holdings of asset at every candle time
func (w *ReplayWallet) AssetValues(asset string) []AssetValue {
	w.RLock()
	defer w.RUnlock()
	_, assets := w.history()
	return assets[asset]
}

// MaxDrawdown returns the deepest fall of equity as a negative fraction of the
// value it fell from, with the window it spans. It is zero when equity never falls.
func (w *ReplayWallet) MaxDrawdown() (float64, time.Time, time.Time) {
	equity := w.EquityValues()
	if len(equity) == 0 {
		return 0, time.Time{}, time.Time{}
	}

	localMin := math.MaxFloat64
	localBase, localStart, localEnd := equity[0].Value, equity[0].Time, equity[0].Time
	globalMin, globalBase, globalStart, globalEnd := 0.0, localBase, localStart, localEnd

	for i := 1; i < len(equity); i++ {
		diff := equity[i].Value - equity[i-1].Value

		if localMin > 0 {
			localMin = diff
			localBase = equity[i-1].Value
			localStart = equity[i-1].Time
			localEnd = equity[i].Time
		} else {
			localMin += diff
			localEnd = equity[i].Time
		}

		if localMin < globalMin {
			globalMin, globalBase, globalStart, globalEnd = localMin, localBase, localStart, localEnd
		}
	}

	if globalMin == 0 || globalBase == 0 {
		return 0, globalStart, globalStart
	}
	return globalMin / globalBase, globalStart, globalEnd
}

// history walks every candle time of every pair in order. Orders filled before
// the next candle time settle on the current one.
func (w *ReplayWallet) history() ([]AssetValue, map[string][]AssetValue) {
	pairs := lo.Keys(w.candles)
	slices.Sort(pairs)

	times := lo.Uniq(lo.FlatMap(pairs, func(pair string, _ int) []time.Time {
		return Column(w.candles[pair], func(c core.Candle) time.Time { return c.Time })
	}))
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	filled := lo.Filter(lo.Values(w.orders), func(o core.Order, _ int) bool { return o.IsFilled() })
	slices.SortFunc(filled, func(a, b core.Order) int {
		return cmp.Or(a.UpdatedAt.Compare(b.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})

	var (
		cash      = w.balance
		held      = make(map[string]float64)
		lastClose = make(map[string]float64)
		next      = make(map[string]int)
		settled   = 0
		equity    = make([]AssetValue, 0, len(times))
		assets    = make(map[string][]AssetValue)
	)

	for i, current := range times {
		for ; settled < len(filled); settled++ {
			order := filled[settled]
			if i+1 < len(times) && !order.UpdatedAt.Before(times[i+1]) {
				break
			}
			if order.IsBuy() {
				cash -= order.Total()
				held[order.Pair] += order.Quantity
			} else {
				cash += order.Total()
				held[order.Pair] -= order.Quantity
			}
		}

		total := cash
		values := make(map[string]float64)
		for _, pair := range pairs {
			candles := w.candles[pair]
			for next[pair] < len(candles) && !candles[next[pair]].Time.After(current) {
				lastClose[pair] = candles[next[pair]].Close
				next[pair]++
			}

			asset, _ := exchange.SplitAssetQuote(pair)
			value := held[pair] * lastClose[pair]
			values[asset] += value
			total += value
		}

		for asset, value := range values {
			assets[asset] = append(assets[asset], AssetValue{Time: current, Value: value})
		}
		equity = append(equity, AssetValue{Time: current, Value: total})
	}

	return equity, assets
}
