package plot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/raykavin/chartspec/pkg/core"
)

// ErrInvalidPayload wraps every payload validation failure
var ErrInvalidPayload = errors.New("invalid chart payload")

// Candle represents OHLCV data with associated orders
type Candle struct {
	Time   time.Time    `json:"time"`
	Open   float64      `json:"open"`
	Close  float64      `json:"close"`
	High   float64      `json:"high" validate:"gtefield=Low"`
	Low    float64      `json:"low"`
	Volume float64      `json:"volume"`
	Orders []core.Order `json:"orders" validate:"dive"`
}

// Shape represents a visual shape on the chart
type Shape struct {
	StartX time.Time `json:"x0"`
	EndX   time.Time `json:"x1"`
	StartY float64   `json:"y0"`
	EndY   float64   `json:"y1"`
	Color  string    `json:"color"`
}

// AssetValue represents a point in time value of an asset
type AssetValue struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Percent is a preformatted percentage. It decodes from a JSON string or number.
type Percent string

func (p *Percent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Percent(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("drawdown value must be a string or number: %w", err)
	}
	*p = Percent(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Drawdown represents maximum drawdown information
type Drawdown struct {
	Value Percent   `json:"value"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end" validate:"gtefield=Start"`
}

// MetricSeries is one plotted line, bar or scatter of an indicator
type MetricSeries struct {
	Name   string      `json:"name"`
	Time   []time.Time `json:"time"`
	Values []float64   `json:"value"`
	Color  string      `json:"color"`
	Style  string      `json:"style"`
}

// IndicatorSeries groups the metrics of one indicator
type IndicatorSeries struct {
	Name    string         `json:"name" validate:"required" jsonschema:"required"`
	Overlay bool           `json:"overlay"`
	Metrics []MetricSeries `json:"metrics" validate:"required,dive" jsonschema:"required"`
	Warmup  int            `json:"-"`
}

// Payload is everything needed to compose the chart of one pair
type Payload struct {
	Candles      []Candle          `json:"candles" validate:"dive"`
	EquityValues []AssetValue      `json:"equity_values"`
	AssetValues  []AssetValue      `json:"asset_values"`
	Quote        string            `json:"quote"`
	Asset        string            `json:"asset"`
	Shapes       []Shape           `json:"shapes"`
	MaxDrawdown  *Drawdown         `json:"max_drawdown"`
	Indicators   []IndicatorSeries `json:"indicators" validate:"dive"`

	// Orders not yet attached to a candle; placed by time during composition
	Orders []core.Order `json:"orders,omitempty" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateMetricSeries, MetricSeries{})
	v.RegisterStructValidation(validatePayload, Payload{})
	return v
}

func validateMetricSeries(sl validator.StructLevel) {
	m := sl.Current().Interface().(MetricSeries)
	if len(m.Time) != len(m.Values) {
		sl.ReportError(m.Values, "Values", "value", "eqlen_time", "")
	}
}

func validatePayload(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payload)
	if p.MaxDrawdown != nil && len(p.EquityValues) == 0 {
		sl.ReportError(p.EquityValues, "EquityValues", "equity_values", "required_with_drawdown", "")
	}
}

// Validate rejects payloads the composer cannot render meaningfully
func (p Payload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}
