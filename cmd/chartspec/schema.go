package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/raykavin/chartspec/pkg/plot"
)

func buildSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of chart payloads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(plot.PayloadSchema())
		},
	}
}
