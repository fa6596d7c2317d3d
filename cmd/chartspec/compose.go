package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raykavin/chartspec/pkg/plot"
)

type composeFlags struct {
	input        string
	output       string
	noPosition   bool
	noDrawdown   bool
	noIndicators bool
	template     string
}

func (f *composeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Payload JSON file")
	cmd.Flags().BoolVar(&f.noPosition, "no-position", false, "Omit the position curve")
	cmd.Flags().BoolVar(&f.noDrawdown, "no-drawdown", false, "Omit the max drawdown highlight")
	cmd.Flags().BoolVar(&f.noIndicators, "no-indicators", false, "Omit standalone indicator panels")
	cmd.Flags().StringVar(&f.template, "template", "", "Plotly layout template (default ggplot2)")
	_ = cmd.MarkFlagRequired("input")
}

func (f *composeFlags) options() []plot.ComposeOption {
	var options []plot.ComposeOption
	if f.noPosition {
		options = append(options, plot.WithoutPosition())
	}
	if f.noDrawdown {
		options = append(options, plot.WithoutDrawdown())
	}
	if f.noIndicators {
		options = append(options, plot.WithoutIndicatorPanels())
	}
	if f.template != "" {
		options = append(options, plot.WithTemplate(f.template))
	}
	return options
}

// load reads and validates the input payload
func (f *composeFlags) load() (plot.Payload, error) {
	payload, err := plot.ReadPayload(f.input)
	if err != nil {
		return plot.Payload{}, err
	}

	if err := payload.Validate(); err != nil {
		return plot.Payload{}, err
	}

	return payload, nil
}

func (f *composeFlags) compose() (plot.Spec, error) {
	payload, err := f.load()
	if err != nil {
		return plot.Spec{}, err
	}
	return plot.Compose(payload, f.options()...)
}

func buildComposeCmd() *cobra.Command {
	flags := &composeFlags{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a payload file into a Plotly chart spec",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := flags.compose()
			if err != nil {
				return err
			}

			if flags.output == "" {
				return writeSpec(cmd.OutOrStdout(), spec)
			}

			file, err := os.Create(flags.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			return writeSpecFile(file, spec)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Spec JSON file (default stdout)")

	return cmd
}

func writeSpec(out io.Writer, spec plot.Spec) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}

// writeSpecFile writes spec and closes file, a failed close is a failed write
func writeSpecFile(file io.WriteCloser, spec plot.Spec) error {
	if err := writeSpec(file, spec); err != nil {
		file.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
