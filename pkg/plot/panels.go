package plot

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	equityAxis = "y1"
	priceAxis  = "y2"

	// first axis number handed to standalone indicators
	firstIndicatorAxis = 3
)

var (
	equityDomain     = Domain{0.9, 1}
	fullPriceDomain  = Domain{0, 0.9}
	splitPriceDomain = Domain{0.4, 0.9}
	indicatorRegion  = Domain{0, 0.39}
)

// PanelAssignment places one indicator on an axis. Overlay indicators share
// the price axis and own no domain.
type PanelAssignment struct {
	Name       string
	Axis       string
	Standalone bool
	Domain     Domain
}

// Panels is the vertical geometry of a chart
type Panels struct {
	Standalone   int
	PriceDomain  Domain
	EquityDomain Domain
	XAnchor      string
	Assignments  []PanelAssignment
}

// AllocatePanels gives every standalone indicator its own equal band of the
// indicator region, bottom-up in list order, and leaves the price panel the
// whole lower area when there are none.
func AllocatePanels(indicators []IndicatorSeries) Panels {
	standalone := lo.CountBy(indicators, func(i IndicatorSeries) bool {
		return !i.Overlay
	})

	panels := Panels{
		Standalone:   standalone,
		PriceDomain:  fullPriceDomain,
		EquityDomain: equityDomain,
		XAnchor:      priceAxis,
		Assignments:  make([]PanelAssignment, 0, len(indicators)),
	}

	if standalone > 0 {
		panels.PriceDomain = splitPriceDomain
		panels.XAnchor = axisName(firstIndicatorAxis)
	}

	height := indicatorRegion.Height() / float64(max(standalone, 1))
	position := 0
	for _, indicator := range indicators {
		if indicator.Overlay {
			panels.Assignments = append(panels.Assignments, PanelAssignment{
				Name: indicator.Name,
				Axis: priceAxis,
			})
			continue
		}

		start := indicatorRegion[0] + float64(position)*height
		panels.Assignments = append(panels.Assignments, PanelAssignment{
			Name:       indicator.Name,
			Axis:       axisName(firstIndicatorAxis + position),
			Standalone: true,
			Domain:     Domain{start, start + height},
		})
		position++
	}

	return panels
}

// axisName returns the trace reference of the n-th y axis ("y3")
func axisName(n int) string {
	return "y" + strconv.Itoa(n)
}

// axisKey returns the layout key of an axis id ("y3" -> "yaxis3")
func axisKey(id string) string {
	return "yaxis" + strings.TrimPrefix(id, "y")
}

// axisID is the inverse of axisKey
func axisID(key string) (string, bool) {
	n, found := strings.CutPrefix(key, "yaxis")
	if !found || n == "" {
		return "", false
	}
	if _, err := strconv.Atoi(n); err != nil {
		return "", false
	}
	return "y" + n, true
}
