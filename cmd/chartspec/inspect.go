package main

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/raykavin/chartspec/pkg/order"
	"github.com/raykavin/chartspec/pkg/plot"
)

func buildInspectCmd() *cobra.Command {
	flags := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the series and panels of a composed chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := flags.load()
			if err != nil {
				return err
			}

			spec, err := plot.Compose(payload, flags.options()...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderInspection(out, spec)
			fmt.Fprintln(out)
			renderTrades(out, payload)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func renderInspection(w io.Writer, spec plot.Spec) {
	series := tablewriter.NewWriter(w)
	series.SetHeader([]string{"Series", "Type", "Axis", "Points"})
	for _, trace := range spec.Data {
		kind := trace.Type
		if trace.Mode != "" {
			kind += "/" + trace.Mode
		}
		series.Append([]string{trace.Name, kind, trace.YAxis, strconv.Itoa(len(trace.X))})
	}
	series.SetFooter([]string{"", "", "Annotations", strconv.Itoa(len(spec.Layout.Annotations))})
	series.Render()

	fmt.Fprintln(w)

	keys := make([]string, 0, len(spec.Layout.YAxes))
	for key := range spec.Layout.YAxes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return axisNumber(keys[i]) < axisNumber(keys[j])
	})

	axes := tablewriter.NewWriter(w)
	axes.SetHeader([]string{"Axis", "Domain", "Title"})
	for _, key := range keys {
		axis := spec.Layout.YAxes[key]
		axes.Append([]string{
			key,
			fmt.Sprintf("%.3g - %.3g", axis.Domain[0], axis.Domain[1]),
			axis.Title,
		})
	}
	axes.SetFooter([]string{"x anchor", spec.Layout.XAxis.Anchor, ""})
	axes.SetFooterAlignment(tablewriter.ALIGN_LEFT)
	axes.Render()
}

// renderTrades summarizes the closed trades of the payload with a 95%
// bootstrap interval of the mean trade profit
func renderTrades(w io.Writer, payload plot.Payload) {
	orders := slices.Clone(payload.Orders)
	for _, candle := range payload.Candles {
		orders = append(orders, candle.Orders...)
	}

	summary := order.Summarize(payload.Asset+payload.Quote, orders)
	summary.Render(w)

	if err := summary.RenderHistogram(w); err != nil {
		fmt.Fprintln(w, "histogram:", err)
	}

	if trades := summary.Trades(); len(trades) > 1 {
		interval := order.Bootstrap(trades, func(s []float64) float64 {
			return stat.Mean(s, nil)
		}, bootstrapSamples, 0.95)
		fmt.Fprintf(w, "Mean trade profit %.2f%% (95%% CI %.2f%% .. %.2f%%)\n",
			interval.Mean*100, interval.Lower*100, interval.Upper*100)
	}
}

const bootstrapSamples = 1000

func axisNumber(key string) int {
	n, _ := strconv.Atoi(key[1:])
	return n
}
