package plot

import (
	"time"

	"github.com/raykavin/chartspec/pkg/core"
)

// IndicatorMetric represents a single metric within an indicator
type IndicatorMetric struct {
	Name   string
	Color  string
	Style  string
	Values core.Series[float64]
	Time   []time.Time
}

// Indicator interface defines the methods required to implement a chart indicator
type Indicator interface {
	Name() string
	Overlay() bool
	Warmup() int
	Metrics() []IndicatorMetric
	Load(dataframe *core.Dataframe)
}

// indicatorsByPair loads every custom indicator with the pair dataframe. Must hold the chart lock.
func (c *Chart) indicatorsByPair(pair string) []IndicatorSeries {
	indicators := make([]IndicatorSeries, 0, len(c.indicators))

	dataframe, ok := c.dataframe[pair]
	if !ok {
		return indicators
	}

	for _, i := range c.indicators {
		i.Load(dataframe)
		indicator := IndicatorSeries{
			Name:    i.Name(),
			Overlay: i.Overlay(),
			Warmup:  i.Warmup(),
			Metrics: make([]MetricSeries, 0),
		}

		for _, metric := range i.Metrics() {
			indicator.Metrics = append(indicator.Metrics, MetricSeries{
				Name:   metric.Name,
				Values: metric.Values,
				Time:   metric.Time,
				Color:  metric.Color,
				Style:  metric.Style,
			})
		}

		indicators = append(indicators, indicator)
	}

	return indicators
}
