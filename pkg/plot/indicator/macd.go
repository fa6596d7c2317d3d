package indicator

import (
	"fmt"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/plot"
)

// MACDColors picks the colors of the MACD line, its signal and the histogram
type MACDColors struct {
	MACD      string
	Signal    string
	Histogram string
}

// MACD draws moving average convergence divergence in a standalone panel
func MACD(fast, slow, signal int, colors MACDColors) plot.Indicator {
	return &macd{fast: fast, slow: slow, signal: signal, colors: colors}
}

type macd struct {
	fast, slow, signal int
	colors             MACDColors

	line, sig, hist core.Series[float64]
	time            []time.Time
}

func (m macd) Warmup() int   { return m.slow + m.signal }
func (m macd) Overlay() bool { return false }
func (m macd) Name() string  { return fmt.Sprintf("MACD(%d, %d, %d)", m.fast, m.slow, m.signal) }

func (m *macd) Load(df *core.Dataframe) {
	m.line, m.sig, m.hist, m.time = nil, nil, nil, nil

	warmup := m.Warmup()
	if len(df.Time) < warmup {
		return
	}

	line, sig, hist := talib.Macd(df.Close, m.fast, m.slow, m.signal)
	m.line, m.time = trim(line, df.Time, warmup)
	m.sig, _ = trim(sig, df.Time, warmup)
	m.hist, _ = trim(hist, df.Time, warmup)
}

func (m macd) Metrics() []plot.IndicatorMetric {
	return []plot.IndicatorMetric{
		{Name: "MACD", Style: styleLine, Color: m.colors.MACD, Values: m.line, Time: m.time},
		{Name: "Signal", Style: styleLine, Color: m.colors.Signal, Values: m.sig, Time: m.time},
		{Name: "Histogram", Style: styleBar, Color: m.colors.Histogram, Values: m.hist, Time: m.time},
	}
}
