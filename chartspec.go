// Package chartspec turns backtest and live trading results into declarative,
// multi-panel Plotly chart specifications.
package chartspec

import "github.com/raykavin/chartspec/pkg/logger"

// DefaultLog is the default logger instance, configured from CHARTSPEC_LOG_* variables
var DefaultLog logger.Logger
