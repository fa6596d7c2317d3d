package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/plot"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func writePayloadFile(t *testing.T, payload plot.Payload) string {
	t.Helper()
	content, err := json.Marshal(payload)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "BTCUSDT.json")
	require.NoError(t, os.WriteFile(file, content, 0o600))
	return file
}

func fixture() plot.Payload {
	buy := core.Order{
		ID: 1, Pair: "BTCUSDT", Side: core.SideTypeBuy, Type: core.OrderTypeMarket,
		Status: core.OrderStatusTypeFilled, Price: 100, Quantity: 1, CreatedAt: t0, UpdatedAt: t0,
	}

	return plot.Payload{
		Candles: []plot.Candle{
			{Time: t0, Open: 100, Close: 101, High: 102, Low: 99, Orders: []core.Order{buy}},
			{Time: t0.Add(time.Hour), Open: 101, Close: 103, High: 104, Low: 100},
		},
		EquityValues: []plot.AssetValue{{Time: t0, Value: 1000}, {Time: t0.Add(time.Hour), Value: 1010}},
		Quote:        "USDT",
		Asset:        "BTC",
		Indicators: []plot.IndicatorSeries{{
			Name:    "RSI(14)",
			Metrics: []plot.MetricSeries{{Time: []time.Time{t0}, Values: []float64{50}, Style: "line", Color: "purple"}},
		}},
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := bytes.NewBuffer(nil)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestComposeCmd(t *testing.T) {
	input := writePayloadFile(t, fixture())

	out, err := run(t, buildComposeCmd(), "--input", input, "--no-position")
	require.NoError(t, err)

	var spec plot.Spec
	require.NoError(t, json.Unmarshal([]byte(out), &spec))
	require.Equal(t, "Candles", spec.Data[0].Name)
	require.NotContains(t, out, "Position (BTC/USDT)")
	require.Contains(t, spec.Layout.YAxes, "y3")

	output := filepath.Join(t.TempDir(), "spec.json")
	_, err = run(t, buildComposeCmd(), "--input", input, "--output", output, "--no-indicators")
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, &spec))
	require.NotContains(t, spec.Layout.YAxes, "y3")
}

func TestComposeCmd_InvalidPayload(t *testing.T) {
	payload := fixture()
	payload.Indicators[0].Metrics = nil

	_, err := run(t, buildComposeCmd(), "--input", writePayloadFile(t, payload))
	require.ErrorIs(t, err, plot.ErrInvalidPayload)

	_, err = run(t, buildComposeCmd())
	require.Error(t, err)
}

func TestInspectCmd(t *testing.T) {
	out, err := run(t, buildInspectCmd(), "--input", writePayloadFile(t, fixture()))
	require.NoError(t, err)

	require.Contains(t, out, "Candles")
	require.Contains(t, out, "candlestick")
	require.Contains(t, out, "RSI(14)")
	require.Contains(t, out, "y3")
	require.Contains(t, out, "Trades")
}

func TestServeFlags_Config(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "chartspec.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 9000\ndata:\n  dir: payloads\n"), 0o600))

	t.Run("flags override file", func(t *testing.T) {
		flags := &serveFlags{}
		cmd := &cobra.Command{Use: "serve"}
		cmd.RunE = func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			require.NoError(t, err)
			require.Equal(t, 7000, cfg.Server.Port)
			require.Equal(t, "payloads", cfg.Data.Dir)
			require.Equal(t, 250.0, cfg.Data.Balance)
			require.Len(t, composeOptions(cfg), 1)
			return nil
		}
		bindServeFlags(cmd, flags)

		_, err := run(t, cmd, "--config", configFile, "--port", "7000", "--balance", "250", "--no-drawdown")
		require.NoError(t, err)
	})

	t.Run("one source required", func(t *testing.T) {
		flags := &serveFlags{}
		cmd := &cobra.Command{Use: "serve"}
		cmd.RunE = func(cmd *cobra.Command, _ []string) error {
			_, err := flags.config(cmd)
			return err
		}
		bindServeFlags(cmd, flags)

		_, err := run(t, cmd)
		require.ErrorContains(t, err, "exactly one")

		_, err = run(t, cmd, "--data", "payloads", "--candles", "BTCUSDT=btc.csv")
		require.ErrorContains(t, err, "exactly one")
	})
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, buildSchemaCmd())
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	require.Equal(t, "chartspec-payload", schema["title"])
}
