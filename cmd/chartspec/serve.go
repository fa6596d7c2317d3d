package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/raykavin/chartspec"
	"github.com/raykavin/chartspec/internal/config"
	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/exchange"
	"github.com/raykavin/chartspec/pkg/logger"
	"github.com/raykavin/chartspec/pkg/plot"
	"github.com/raykavin/chartspec/pkg/plot/indicator"
	"github.com/raykavin/chartspec/pkg/storage"
)

type serveFlags struct {
	configFile   string
	dataDir      string
	candles      map[string]string
	orders       string
	balance      float64
	port         int
	stale        string
	debug        bool
	noPosition   bool
	noDrawdown   bool
	noIndicators bool
}

func buildServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive charts over HTTP",
		Long: "Serve charts from payload files in a directory (--data) or from CSV candles " +
			"replayed into a live chart store (--candles PAIR=file.csv).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	bindServeFlags(cmd, flags)

	return cmd
}

func bindServeFlags(cmd *cobra.Command, flags *serveFlags) {
	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&flags.dataDir, "data", "d", "", "Directory of <pair>.json payload files")
	cmd.Flags().StringToStringVar(&flags.candles, "candles", nil, "CSV candles per pair (e.g. BTCUSDT=btc-1h.csv)")
	cmd.Flags().StringVar(&flags.orders, "orders", "", "Order storage: a BuntDB file or sqlite:<file>")
	cmd.Flags().Float64Var(&flags.balance, "balance", 10000, "Quote balance the --candles replay wallet starts with")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 8080, "HTTP port")
	cmd.Flags().StringVar(&flags.stale, "stale", "1h10m", "Report unhealthy after this long without updates")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Serve the chart script unminified")
	cmd.Flags().BoolVar(&flags.noPosition, "no-position", false, "Omit the position curve")
	cmd.Flags().BoolVar(&flags.noDrawdown, "no-drawdown", false, "Omit the max drawdown highlight")
	cmd.Flags().BoolVar(&flags.noIndicators, "no-indicators", false, "Omit standalone indicator panels")
}

// config loads the config file, if any, and lets explicit flags override it
func (f *serveFlags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	disabled := false
	if changed("data") {
		cfg.Data.Dir = f.dataDir
	}
	if changed("candles") {
		cfg.Data.Candles = f.candles
	}
	if changed("orders") {
		cfg.Data.Orders = f.orders
	}
	if changed("balance") {
		cfg.Data.Balance = f.balance
	}
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("stale") {
		cfg.Server.Stale = f.stale
	}
	if changed("debug") {
		cfg.Server.Debug = f.debug
	}
	if f.noPosition {
		cfg.Chart.Position = &disabled
	}
	if f.noDrawdown {
		cfg.Chart.Drawdown = &disabled
	}
	if f.noIndicators {
		cfg.Chart.Indicators = &disabled
	}

	if (cfg.Data.Dir == "") == (len(cfg.Data.Candles) == 0) {
		return nil, fmt.Errorf("exactly one of --data or --candles is required")
	}

	return cfg, nil
}

func composeOptions(cfg *config.Config) []plot.ComposeOption {
	var options []plot.ComposeOption
	if !config.Enabled(cfg.Chart.Position) {
		options = append(options, plot.WithoutPosition())
	}
	if !config.Enabled(cfg.Chart.Drawdown) {
		options = append(options, plot.WithoutDrawdown())
	}
	if !config.Enabled(cfg.Chart.Indicators) {
		options = append(options, plot.WithoutIndicatorPanels())
	}
	if cfg.Chart.Template != "" {
		options = append(options, plot.WithTemplate(cfg.Chart.Template))
	}
	return options
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	log := chartspec.DefaultLog

	stale, err := cfg.StaleAfter()
	if err != nil {
		return err
	}

	var orders storage.Storage
	if cfg.Data.Orders != "" {
		if orders, err = storage.Open(cfg.Data.Orders, log); err != nil {
			return err
		}
		defer orders.Close()
	}

	var source plot.PayloadSource
	if cfg.Data.Dir != "" {
		var options []plot.FileSourceOption
		if orders != nil {
			options = append(options, plot.WithStoredOrders(orders))
		}
		source = plot.NewFileSource(cfg.Data.Dir, options...)
	} else {
		if source, err = replayChart(log, cfg.Data.Candles, orders, cfg.Data.Balance); err != nil {
			return err
		}
	}

	serverOptions := []plot.ServerOption{
		plot.WithPort(cfg.Server.Port),
		plot.WithStaleAfter(stale),
		plot.WithComposeOptions(composeOptions(cfg)...),
	}
	if cfg.Server.Debug {
		serverOptions = append(serverOptions, plot.WithDebug())
	}

	server, err := plot.NewServer(source, log, serverOptions...)
	if err != nil {
		return err
	}

	return server.Start(cmd.Context(), plot.NewStandardHTTPServer())
}

// replayChart feeds CSV candles and stored orders into a live chart store and
// the replay wallet behind its equity panel. orders may be nil.
func replayChart(log logger.Logger, candleFiles map[string]string, orders core.OrderStorage, balance float64) (*plot.Chart, error) {
	wallet := plot.NewReplayWallet(balance)
	chart := plot.NewChart(log, plot.WithEquityProvider(wallet), plot.WithCustomIndicators(
		indicator.EMA(9, "#ff9800"),
		indicator.BollingerBands(20, 2, "rgba(33, 150, 243, 0.6)"),
		indicator.RSI(14, "purple"),
		indicator.MACD(12, 26, 9, indicator.MACDColors{MACD: "blue", Signal: "red", Histogram: "gray"}),
	))

	for pair, file := range candleFiles {
		candles, err := exchange.ReadCandles(file, pair)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pair, err)
		}
		progressBar := progressbar.Default(int64(len(candles)), "replaying "+pair)
		for _, candle := range candles {
			chart.OnCandle(candle)
			wallet.OnCandle(candle)
			if err := progressBar.Add(1); err != nil {
				log.Warnf("update progressbar fail: %v", err)
			}
		}
		log.WithField("pair", pair).Infof("loaded %d candles from %s", len(candles), file)

		if orders == nil {
			continue
		}

		stored, err := orders.Orders(core.WithPair(pair))
		if err != nil {
			return nil, fmt.Errorf("%s: stored orders: %w", pair, err)
		}
		for _, order := range stored {
			chart.OnOrder(*order)
			wallet.OnOrder(*order)
		}
	}

	return chart, nil
}
