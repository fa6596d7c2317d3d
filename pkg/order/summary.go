// Package order summarizes the trades drawn on a chart.
package order

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/exchange"
)

// TradeSummary collects the closed trades of a pair. A filled order carrying a
// profit closes a trade: SELL closes a long, BUY closes a short.
type TradeSummary struct {
	Pair      string
	WinLong   []float64
	WinShort  []float64
	LoseLong  []float64
	LoseShort []float64
	Volume    float64
}

// Summarize builds the summary of the filled orders of pair
func Summarize(pair string, orders []core.Order) TradeSummary {
	summary := TradeSummary{Pair: pair}

	for _, o := range orders {
		if !o.IsFilled() {
			continue
		}
		summary.Volume += o.Total()

		switch {
		case o.Profit > 0 && o.IsSell():
			summary.WinLong = append(summary.WinLong, o.Profit)
		case o.Profit > 0 && o.IsBuy():
			summary.WinShort = append(summary.WinShort, o.Profit)
		case o.Profit < 0 && o.IsSell():
			summary.LoseLong = append(summary.LoseLong, o.Profit)
		case o.Profit < 0 && o.IsBuy():
			summary.LoseShort = append(summary.LoseShort, o.Profit)
		}
	}

	return summary
}

func (s TradeSummary) Win() []float64 {
	return append(append([]float64{}, s.WinLong...), s.WinShort...)
}

func (s TradeSummary) Lose() []float64 {
	return append(append([]float64{}, s.LoseLong...), s.LoseShort...)
}

func (s TradeSummary) Trades() []float64 {
	return append(s.Win(), s.Lose()...)
}

// Profit sums the profit fractions of every closed trade
func (s TradeSummary) Profit() float64 {
	return floats.Sum(s.Trades())
}

// WinPercentage is the share of winning trades, in percent
func (s TradeSummary) WinPercentage() float64 {
	total := len(s.Trades())
	if total == 0 {
		return 0
	}
	return float64(len(s.Win())) / float64(total) * 100
}

// Payoff is the average win over the absolute average loss
func (s TradeSummary) Payoff() float64 {
	win, lose := s.Win(), s.Lose()
	if len(win) == 0 || len(lose) == 0 {
		return 0
	}

	avgLoss := stat.Mean(lose, nil)
	if avgLoss == 0 {
		return 0
	}
	return stat.Mean(win, nil) / math.Abs(avgLoss)
}

// ProfitFactor is the gross profit over the absolute gross loss
func (s TradeSummary) ProfitFactor() float64 {
	grossLoss := floats.Sum(s.Lose())
	if grossLoss == 0 {
		return 0
	}
	return floats.Sum(s.Win()) / math.Abs(grossLoss)
}

// SQN is the system quality number: sqrt(n) * mean / stddev
func (s TradeSummary) SQN() float64 {
	trades := s.Trades()
	if len(trades) == 0 {
		return 0
	}

	mean, stdDev := stat.PopMeanStdDev(trades, nil)
	if stdDev == 0 {
		return 0
	}
	return math.Sqrt(float64(len(trades))) * mean / stdDev
}

// Render writes the summary as a two column table
func (s TradeSummary) Render(w io.Writer) {
	_, quote := exchange.SplitAssetQuote(s.Pair)

	table := tablewriter.NewWriter(w)
	table.AppendBulk([][]string{
		{"Pair", s.Pair},
		{"Trades", strconv.Itoa(len(s.Trades()))},
		{"Win", strconv.Itoa(len(s.Win()))},
		{"Loss", strconv.Itoa(len(s.Lose()))},
		{"% Win", fmt.Sprintf("%.1f", s.WinPercentage())},
		{"Payoff", fmt.Sprintf("%.1f", s.Payoff()*100)},
		{"Pr.Fact", fmt.Sprintf("%.1f", s.ProfitFactor()*100)},
		{"SQN", fmt.Sprintf("%.1f", s.SQN())},
		{"Profit", fmt.Sprintf("%.2f%%", s.Profit()*100)},
		{"Volume", fmt.Sprintf("%.4f %s", s.Volume, quote)},
	})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()
}

// RenderHistogram writes the distribution of trade returns, in percent
func (s TradeSummary) RenderHistogram(w io.Writer) error {
	trades := s.Trades()
	// a single bucket has no width to scale
	if len(trades) == 0 || floats.Min(trades) == floats.Max(trades) {
		return nil
	}

	returns := make([]float64, len(trades))
	for i, profit := range trades {
		returns[i] = profit * 100
	}

	return histogram.Fprint(w, histogram.Hist(15, returns), histogram.Linear(10))
}

// Interval is a bootstrap confidence interval
type Interval struct {
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
}

// Bootstrap estimates the confidence interval of measure over values by
// resampling with replacement
func Bootstrap(values []float64, measure func([]float64) float64, samples int, confidence float64) Interval {
	if len(values) == 0 || samples <= 0 {
		return Interval{}
	}

	data := make([]float64, samples)
	resample := make([]float64, len(values))
	for i := range data {
		for j := range resample {
			resample[j] = lo.Sample(values)
		}
		data[i] = measure(resample)
	}
	sort.Float64s(data)

	tail := 1 - confidence
	mean, stdDev := stat.MeanStdDev(data, nil)
	return Interval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}
