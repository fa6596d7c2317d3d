package plot

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/samber/lo"
)

const (
	colorBuy  = "green"
	colorSell = "red"

	xAxisRef = "x1"
)

// TradePoint is the marker of one filled order
type TradePoint struct {
	Time     time.Time     `json:"time"`
	Position float64       `json:"position"`
	Side     core.SideType `json:"side"`
	Color    string        `json:"color"`
}

// Markers holds everything derived from filled orders
type Markers struct {
	Points      []TradePoint
	Annotations []Annotation
}

// BySide returns the points of a single side, in their original order
func (m Markers) BySide(side core.SideType) []TradePoint {
	return lo.Filter(m.Points, func(p TradePoint, _ int) bool {
		return p.Side == side
	})
}

// TradeMarkers builds one point and one annotation per filled order. Orders
// come from each candle and from loose, which are placed through index.
func TradeMarkers(candles []Candle, loose []core.Order, index candleIndex) Markers {
	placed := index.place(loose)
	markers := Markers{
		Points:      make([]TradePoint, 0),
		Annotations: make([]Annotation, 0),
	}

	for i, candle := range candles {
		orders := slices.Concat(candle.Orders, placed[i])
		for _, order := range orders {
			if !order.IsFilled() {
				continue
			}

			markers.Points = append(markers.Points, TradePoint{
				Time:     candle.Time,
				Position: order.Price,
				Side:     order.Side,
				Color:    sideColor(order.Side),
			})
			markers.Annotations = append(markers.Annotations, tradeAnnotation(candle, order))
		}
	}

	return markers
}

func sideColor(side core.SideType) string {
	if side == core.SideTypeSell {
		return colorSell
	}
	return colorBuy
}

func tradeAnnotation(candle Candle, order core.Order) Annotation {
	if order.Side == core.SideTypeSell {
		return sellAnnotation(candle, order)
	}
	return buyAnnotation(candle, order)
}

// buyAnnotation points up at the candle low from below
func buyAnnotation(candle Candle, order core.Order) Annotation {
	return Annotation{
		X:          candle.Time,
		Y:          candle.Low,
		XRef:       xAxisRef,
		YRef:       priceAxis,
		Text:       "B",
		HoverText:  orderHoverText(order),
		ShowArrow:  true,
		ArrowColor: colorBuy,
		ArrowHead:  2,
		AX:         lo.ToPtr(0.0),
		AY:         lo.ToPtr(20.0),
		VAlign:     "bottom",
		BorderPad:  4,
		Font:       Font{Size: 12, Color: colorBuy},
	}
}

// sellAnnotation points down at the candle high from above
func sellAnnotation(candle Candle, order core.Order) Annotation {
	return Annotation{
		X:          candle.Time,
		Y:          candle.High,
		XRef:       xAxisRef,
		YRef:       priceAxis,
		Text:       "S",
		HoverText:  orderHoverText(order),
		ShowArrow:  true,
		ArrowColor: colorSell,
		ArrowHead:  2,
		AX:         lo.ToPtr(0.0),
		AY:         lo.ToPtr(-20.0),
		VAlign:     "top",
		BorderPad:  4,
		Font:       Font{Size: 12, Color: colorSell},
	}
}

// orderHoverText lists the order details; the profit line appears only for a non-zero profit
func orderHoverText(order core.Order) string {
	lines := []string{
		order.UpdatedAt.Format(time.RFC3339Nano),
		fmt.Sprintf("ID: %d", order.ID),
		"Price: " + formatLocale(order.Price),
		"Size: " + toPrecision(order.Quantity, 4),
		fmt.Sprintf("Type: %s", order.Type),
	}

	if order.Profit != 0 {
		lines = append(lines, "Profit: "+roundSignificant(order.Profit*100, 2)+"%")
	}

	return strings.Join(lines, "<br>")
}
