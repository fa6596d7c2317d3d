package plot

import (
	"fmt"
	"time"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/samber/lo"
)

const defaultTemplate = "ggplot2"

// composeConfig selects the optional panels of a chart
type composeConfig struct {
	template   string
	position   bool
	drawdown   bool
	standalone bool
}

// ComposeOption configures Compose
type ComposeOption func(*composeConfig)

// WithoutPosition drops the base asset position curve
func WithoutPosition() ComposeOption {
	return func(c *composeConfig) {
		c.position = false
	}
}

// WithoutDrawdown ignores the max drawdown of the payload
func WithoutDrawdown() ComposeOption {
	return func(c *composeConfig) {
		c.drawdown = false
	}
}

// WithoutIndicatorPanels skips standalone indicators; overlays are still drawn
func WithoutIndicatorPanels() ComposeOption {
	return func(c *composeConfig) {
		c.standalone = false
	}
}

// WithTemplate sets the Plotly layout template
func WithTemplate(name string) ComposeOption {
	return func(c *composeConfig) {
		c.template = name
	}
}

// Compose turns a payload into a chart spec. It keeps no state and never
// modifies the payload; the payload is expected to have passed Validate.
func Compose(payload Payload, options ...ComposeOption) (Spec, error) {
	config := composeConfig{
		template:   defaultTemplate,
		position:   true,
		drawdown:   true,
		standalone: true,
	}
	for _, option := range options {
		option(&config)
	}

	index := newCandleIndex(payload.Candles)
	markers := TradeMarkers(payload.Candles, payload.Orders, index)

	var overlay *DrawdownOverlay
	if config.drawdown {
		var err error
		if overlay, err = BuildDrawdownOverlay(payload.MaxDrawdown, payload.EquityValues); err != nil {
			return Spec{}, fmt.Errorf("max drawdown: %w", err)
		}
	}

	indicators := payload.Indicators
	if !config.standalone {
		indicators = lo.Filter(indicators, func(i IndicatorSeries, _ int) bool {
			return i.Overlay
		})
	}
	panels := AllocatePanels(indicators)

	data := []Trace{
		candlestickTrace(payload.Candles),
		curveTrace(fmt.Sprintf("Equity (%s)", payload.Quote), payload.EquityValues),
	}
	if config.position {
		data = append(data, curveTrace(fmt.Sprintf("Position (%s/%s)", payload.Asset, payload.Quote), payload.AssetValues))
	}
	data = append(data,
		pointsTrace("Buy Points", colorBuy, markers.BySide(core.SideTypeBuy)),
		pointsTrace("Sell Points", colorSell, markers.BySide(core.SideTypeSell)),
	)
	for i, indicator := range indicators {
		data = append(data, indicatorTraces(indicator, panels.Assignments[i].Axis)...)
	}

	layout := Layout{
		Template:   config.template,
		DragMode:   "zoom",
		Margin:     Margin{Top: 25},
		ShowLegend: true,
		XAxis: XAxis{
			AutoRange:   true,
			RangeSlider: RangeSlider{Visible: false},
			ShowLine:    true,
			Anchor:      panels.XAnchor,
		},
		YAxes: map[string]YAxis{
			equityAxis: sideAxis(panels.EquityDomain),
			priceAxis:  sideAxis(panels.PriceDomain),
		},
		HoverMode:   "x unified",
		Annotations: markers.Annotations,
		Shapes: Column(payload.Shapes, func(s Shape) RectShape {
			return RectShape{
				Type:      "rect",
				XRef:      xAxisRef,
				YRef:      priceAxis,
				X0:        s.StartX,
				Y0:        s.StartY,
				X1:        s.EndX,
				Y1:        s.EndY,
				Line:      Line{Width: new(float64)},
				FillColor: s.Color,
			}
		}),
	}

	for _, assignment := range panels.Assignments {
		if !assignment.Standalone {
			continue
		}
		axis := sideAxis(assignment.Domain)
		axis.Title = assignment.Name
		axis.LineColor = "black"
		layout.YAxes[assignment.Axis] = axis
	}

	if overlay != nil {
		layout.Annotations = append(layout.Annotations, overlay.Annotation)
		layout.Shapes = append(layout.Shapes, overlay.Shape)
	}

	return Spec{Data: data, Layout: layout}, nil
}

func sideAxis(domain Domain) YAxis {
	return YAxis{
		Domain:    domain,
		AutoRange: true,
		Mirror:    true,
		ShowLine:  true,
		GridColor: "#ddd",
	}
}

func candlestickTrace(candles []Candle) Trace {
	return Trace{
		Name:  "Candles",
		Type:  "candlestick",
		X:     Column(candles, func(c Candle) time.Time { return c.Time }),
		Open:  Column(candles, func(c Candle) float64 { return c.Open }),
		High:  Column(candles, func(c Candle) float64 { return c.High }),
		Low:   Column(candles, func(c Candle) float64 { return c.Low }),
		Close: Column(candles, func(c Candle) float64 { return c.Close }),
		XAxis: xAxisRef,
		YAxis: priceAxis,
	}
}

// curveTrace draws equity-like values filled down to zero on the top panel
func curveTrace(name string, values []AssetValue) Trace {
	return Trace{
		Name:  name,
		Mode:  "lines",
		Fill:  "tozeroy",
		X:     Column(values, func(v AssetValue) time.Time { return v.Time }),
		Y:     Column(values, func(v AssetValue) float64 { return v.Value }),
		XAxis: xAxisRef,
		YAxis: equityAxis,
	}
}

func pointsTrace(name, color string, points []TradePoint) Trace {
	return Trace{
		Name:   name,
		Type:   "scatter",
		Mode:   "markers",
		X:      Column(points, func(p TradePoint) time.Time { return p.Time }),
		Y:      Column(points, func(p TradePoint) float64 { return p.Position }),
		XAxis:  xAxisRef,
		YAxis:  priceAxis,
		Marker: &Marker{Color: color},
	}
}

func indicatorTraces(indicator IndicatorSeries, axis string) []Trace {
	return Column(indicator.Metrics, func(metric MetricSeries) Trace {
		name := indicator.Name
		if metric.Name != "" {
			name += " - " + metric.Name
		}

		return Trace{
			Title: indicator.Name,
			Name:  name,
			Type:  metric.Style,
			X:     metric.Time,
			Y:     metric.Values,
			XAxis: xAxisRef,
			YAxis: axis,
			Line:  &Line{Color: metric.Color},
		}
	})
}
