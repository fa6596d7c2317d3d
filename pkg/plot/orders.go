package plot

import (
	"strconv"

	"github.com/raykavin/chartspec/pkg/core"
)

const (
	limitRangeColor = "rgba(0, 255, 0, 0.3)"
	stopRangeColor  = "rgba(255, 0, 0, 0.3)"
)

// shapesByPair highlights the price range of stop-loss and limit-maker orders
// between creation and last update. Must hold the chart lock.
func (c *Chart) shapesByPair(pair string) []Shape {
	shapes := make([]Shape, 0)

	for _, order := range c.ordersByPair(pair) {
		if order.Type != core.OrderTypeStopLoss && order.Type != core.OrderTypeLimitMaker {
			continue
		}

		shape := Shape{
			StartX: order.CreatedAt,
			EndX:   order.UpdatedAt,
			StartY: order.RefPrice,
			EndY:   order.Price,
			Color:  limitRangeColor,
		}
		if order.Type == core.OrderTypeStopLoss {
			shape.Color = stopRangeColor
		}

		shapes = append(shapes, shape)
	}

	return shapes
}

var historyHeader = []string{
	"created_at", "status", "side", "id", "type",
	"quantity", "price", "total", "profit",
}

// historyRows lists every order of a payload as CSV rows, candle by candle
func historyRows(payload Payload) [][]string {
	rows := make([][]string, 0)

	appendOrder := func(o core.Order) {
		var profit string
		if o.Profit != 0 {
			profit = strconv.FormatFloat(o.Profit, 'f', 2, 64)
		}

		rows = append(rows, []string{
			o.CreatedAt.String(),
			string(o.Status),
			string(o.Side),
			strconv.FormatInt(o.ID, 10),
			string(o.Type),
			strconv.FormatFloat(o.Quantity, 'f', 6, 64),
			strconv.FormatFloat(o.Price, 'f', 6, 64),
			strconv.FormatFloat(o.Total(), 'f', 2, 64),
			profit,
		})
	}

	for _, candle := range payload.Candles {
		for _, order := range candle.Orders {
			appendOrder(order)
		}
	}
	for _, order := range payload.Orders {
		appendOrder(order)
	}

	return rows
}
