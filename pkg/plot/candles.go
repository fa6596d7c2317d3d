package plot

import (
	"slices"

	"github.com/raykavin/chartspec/pkg/core"
)

// candlesByPair returns a copy of the pair candles with every known order
// attached to the candle it was last updated in. Must hold the chart lock.
func (c *Chart) candlesByPair(pair string) []Candle {
	candles := make([]Candle, len(c.candles[pair]))
	copy(candles, c.candles[pair])

	orders := c.ordersByPair(pair)
	if len(orders) == 0 {
		return candles
	}

	for i, placed := range newCandleIndex(candles).place(orders) {
		candles[i].Orders = slices.Concat(candles[i].Orders, placed)
	}

	return candles
}

// ordersByPair returns the orders of a pair in arrival order. Must hold the chart lock.
func (c *Chart) ordersByPair(pair string) []core.Order {
	ids, ok := c.ordersIDsByPair[pair]
	if !ok {
		return nil
	}

	orders := make([]core.Order, 0)
	for id := range ids.Iter() {
		orders = append(orders, c.orderByID[id])
	}
	return orders
}
