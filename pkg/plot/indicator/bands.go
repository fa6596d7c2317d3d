package indicator

import (
	"fmt"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/plot"
)

// BollingerBands draws upper, middle and lower bands over the price panel
func BollingerBands(period int, deviation float64, color string) plot.Indicator {
	return &bollinger{period: period, deviation: deviation, color: color}
}

type bollinger struct {
	period    int
	deviation float64
	color     string

	upper, middle, lower core.Series[float64]
	time                 []time.Time
}

func (b bollinger) Warmup() int   { return b.period }
func (b bollinger) Overlay() bool { return true }
func (b bollinger) Name() string  { return fmt.Sprintf("BB(%d, %g)", b.period, b.deviation) }

func (b *bollinger) Load(df *core.Dataframe) {
	b.upper, b.middle, b.lower, b.time = nil, nil, nil, nil
	if len(df.Time) < b.period {
		return
	}

	upper, middle, lower := talib.BBands(df.Close, b.period, b.deviation, b.deviation, talib.SMA)
	b.upper, b.time = trim(upper, df.Time, b.period)
	b.middle, _ = trim(middle, df.Time, b.period)
	b.lower, _ = trim(lower, df.Time, b.period)
}

func (b bollinger) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		{Name: "Upper", Style: styleLine, Color: b.color, Values: b.upper, Time: b.time},
		{Name: "Middle", Style: styleLine, Color: b.color, Values: b.middle, Time: b.time},
		{Name: "Lower", Style: styleLine, Color: b.color, Values: b.lower, Time: b.time},
	}
}

// Stoch draws the slow stochastic oscillator %K and %D lines in a standalone panel
func Stoch(fastK, slowK, slowD int, colorK, colorD string) plot.Indicator {
	return &stoch{fastK: fastK, slowK: slowK, slowD: slowD, colorK: colorK, colorD: colorD}
}

type stoch struct {
	fastK, slowK, slowD int
	colorK, colorD      string

	k, d core.Series[float64]
	time []time.Time
}

func (s stoch) Warmup() int   { return s.fastK + s.slowK + s.slowD }
func (s stoch) Overlay() bool { return false }
func (s stoch) Name() string  { return fmt.Sprintf("Stoch(%d, %d, %d)", s.fastK, s.slowK, s.slowD) }

func (s *stoch) Load(df *core.Dataframe) {
	s.k, s.d, s.time = nil, nil, nil

	warmup := s.Warmup()
	if len(df.Time) < warmup {
		return
	}

	k, d := talib.Stoch(df.High, df.Low, df.Close, s.fastK, s.slowK, talib.SMA, s.slowD, talib.SMA)
	s.k, s.time = trim(k, df.Time, warmup)
	s.d, _ = trim(d, df.Time, warmup)
}

func (s stoch) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		{Name: "K", Style: styleLine, Color: s.colorK, Values: s.k, Time: s.time},
		{Name: "D", Style: styleLine, Color: s.colorD, Values: s.d, Time: s.time},
	}
}
