package plot

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyEquity is returned when a drawdown must be drawn over an empty equity curve
var ErrEmptyEquity = errors.New("drawdown requires a non-empty equity curve")

const drawdownFill = "rgba(255,0,0,0.2)"

// DrawdownOverlay is the highlight of the max drawdown window on the equity panel
type DrawdownOverlay struct {
	Shape      RectShape
	Annotation Annotation
}

// BuildDrawdownOverlay spans the drawdown window from zero to the equity peak
// and labels its middle. A nil drawdown yields a nil overlay.
func BuildDrawdownOverlay(drawdown *Drawdown, equity []AssetValue) (*DrawdownOverlay, error) {
	if drawdown == nil {
		return nil, nil
	}

	if len(equity) == 0 {
		return nil, ErrEmptyEquity
	}

	if drawdown.End.Before(drawdown.Start) {
		return nil, fmt.Errorf("%w: drawdown ends at %s before it starts at %s",
			ErrInvalidPayload, drawdown.End, drawdown.Start)
	}

	top := floats.Max(Column(equity, func(v AssetValue) float64 { return v.Value }))
	middle := drawdown.Start.Add(drawdown.End.Sub(drawdown.Start) / 2)

	return &DrawdownOverlay{
		Shape: RectShape{
			Type:      "rect",
			XRef:      xAxisRef,
			YRef:      equityAxis,
			X0:        drawdown.Start,
			Y0:        0,
			X1:        drawdown.End,
			Y1:        top,
			Line:      Line{Width: new(float64)},
			FillColor: drawdownFill,
			Layer:     "below",
		},
		Annotation: Annotation{
			X:         middle,
			Y:         top / 2.0,
			XRef:      xAxisRef,
			YRef:      equityAxis,
			Text:      fmt.Sprintf("Drawdown<br>%s%%", drawdown.Value),
			ShowArrow: false,
			Font:      Font{Size: 12, Color: colorSell},
		},
	}, nil
}
