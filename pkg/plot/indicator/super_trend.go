package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/plot"
)

// SuperTrend follows price with a band factor times the ATR away from the
// candle median, flipping side when close crosses it
func SuperTrend(period int, factor float64, color string) plot.Indicator {
	return &single{
		name:    "SuperTrend",
		title:   fmt.Sprintf("SuperTrend(%d, %g)", period, factor),
		period:  period,
		color:   color,
		style:   styleScatter,
		overlay: true,
		compute: func(df *core.Dataframe, period int) []float64 {
			return superTrend(df, talib.Atr(df.High, df.Low, df.Close, period), factor)
		},
	}
}

func superTrend(df *core.Dataframe, atr []float64, factor float64) []float64 {
	size := len(atr)
	if size == 0 {
		return nil
	}

	upper := make([]float64, size)
	lower := make([]float64, size)
	trend := make([]float64, size)

	// starts in a down trend, following the upper band. The direction is kept
	// apart since both bands match while the ATR warms up at zero.
	upper[0], lower[0] = bands(df.High[0], df.Low[0], atr[0], factor)
	trend[0] = upper[0]
	up := false

	for i := 1; i < size; i++ {
		basicUpper, basicLower := bands(df.High[i], df.Low[i], atr[i], factor)
		prevClose := df.Close[i-1]

		upper[i] = upper[i-1]
		if basicUpper < upper[i-1] || prevClose > upper[i-1] {
			upper[i] = basicUpper
		}

		lower[i] = lower[i-1]
		if basicLower > lower[i-1] || prevClose < lower[i-1] {
			lower[i] = basicLower
		}

		if up {
			up = df.Close[i] >= lower[i]
		} else {
			up = df.Close[i] > upper[i]
		}

		trend[i] = upper[i]
		if up {
			trend[i] = lower[i]
		}
	}

	return trend
}

func bands(high, low, atr, factor float64) (upper, lower float64) {
	median := (high + low) / 2.0
	return median + atr*factor, median - atr*factor
}
