// Package indicator provides talib backed chart indicators for plot.Chart.
package indicator

import (
	"fmt"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/plot"
)

const (
	styleLine    = "line"
	styleBar     = "bar"
	styleScatter = "scatter"
)

// single is an indicator drawn as one line computed from the dataframe
type single struct {
	name    string
	title   string // replaces the "name(period)" default
	period  int
	color   string
	style   string
	overlay bool
	compute func(df *core.Dataframe, period int) []float64

	values core.Series[float64]
	time   []time.Time
}

func (s single) Overlay() bool { return s.overlay }
func (s single) Warmup() int   { return s.period }

func (s single) Name() string {
	if s.title != "" {
		return s.title
	}
	return fmt.Sprintf("%s(%d)", s.name, s.period)
}

func (s *single) Load(df *core.Dataframe) {
	s.values, s.time = nil, nil
	if len(df.Time) == 0 || len(df.Time) < s.period {
		return
	}
	s.values, s.time = trim(s.compute(df, s.period), df.Time, s.period)
}

func (s single) Metrics() []plot.IndicatorMetric {
	style := s.style
	if style == "" {
		style = styleLine
	}
	return []plot.IndicatorMetric{{Style: style, Color: s.color, Values: s.values, Time: s.time}}
}

// EMA is the exponential moving average of close prices, drawn over the price panel
func EMA(period int, color string) plot.Indicator {
	return &single{name: "EMA", period: period, color: color, overlay: true,
		compute: func(df *core.Dataframe, period int) []float64 {
			return talib.Ema(df.Close, period)
		}}
}

// SMA is the simple moving average of close prices, drawn over the price panel
func SMA(period int, color string) plot.Indicator {
	return &single{name: "SMA", period: period, color: color, overlay: true,
		compute: func(df *core.Dataframe, period int) []float64 {
			return talib.Sma(df.Close, period)
		}}
}

// RSI gets its own panel
func RSI(period int, color string) plot.Indicator {
	return &single{name: "RSI", period: period, color: color,
		compute: func(df *core.Dataframe, period int) []float64 {
			return talib.Rsi(df.Close, period)
		}}
}

// CCI is the commodity channel index over high, low and close
func CCI(period int, color string) plot.Indicator {
	return &single{name: "CCI", period: period, color: color,
		compute: func(df *core.Dataframe, period int) []float64 {
			return talib.Cci(df.High, df.Low, df.Close, period)
		}}
}

// OBV is the on-balance volume, a running total of volume signed by the close direction
func OBV(color string) plot.Indicator {
	return &single{name: "OBV", title: "OBV", color: color,
		compute: func(df *core.Dataframe, _ int) []float64 {
			return talib.Obv(df.Close, df.Volume)
		}}
}

// WillR is the Williams %R oscillator, between -100 and 0
func WillR(period int, color string) plot.Indicator {
	return &single{name: "WillR", title: fmt.Sprintf("%%R(%d)", period), period: period, color: color,
		compute: func(df *core.Dataframe, period int) []float64 {
			return talib.WillR(df.High, df.Low, df.Close, period)
		}}
}

// trim drops the first n points, which talib leaves at zero while warming up
func trim(values []float64, times []time.Time, n int) (core.Series[float64], []time.Time) {
	if n <= 0 || len(values) <= n {
		return values, times
	}
	return values[n:], times[n:]
}
