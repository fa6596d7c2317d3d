package plot

import (
	"sort"
	"time"

	"github.com/raykavin/chartspec/pkg/core"
)

// candleIndex maps timestamps onto candle positions. It is built once per
// render from an ordered candle list and never modified afterwards.
type candleIndex struct {
	times  []time.Time
	byTime map[int64]int
}

func newCandleIndex(candles []Candle) candleIndex {
	index := candleIndex{
		times:  Column(candles, func(c Candle) time.Time { return c.Time }),
		byTime: make(map[int64]int, len(candles)),
	}
	for i, c := range candles {
		index.byTime[c.Time.UnixNano()] = i
	}
	return index
}

// locate returns the candle whose bucket contains t: an exact open time, the
// last candle opened before t, or the last candle for times after it. Times
// before the first candle have no candle.
func (ci candleIndex) locate(t time.Time) (int, bool) {
	if i, ok := ci.byTime[t.UnixNano()]; ok {
		return i, true
	}

	next := sort.Search(len(ci.times), func(i int) bool {
		return ci.times[i].After(t)
	})
	if next == 0 {
		return 0, false
	}
	return next - 1, true
}

// place groups loose orders by the candle they fall into, keeping their order.
// Orders outside the candle range are dropped.
func (ci candleIndex) place(orders []core.Order) map[int][]core.Order {
	placed := make(map[int][]core.Order)
	for _, order := range orders {
		if i, ok := ci.locate(order.UpdatedAt); ok {
			placed[i] = append(placed[i], order)
		}
	}
	return placed
}
