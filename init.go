package chartspec

import (
	"os"
	"strconv"

	"github.com/raykavin/chartspec/pkg/logger/zerolog"
)

const (
	// Default configuration values
	defaultLogLevel      = "debug"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
)

// Environment variable names
const (
	envLogLevel      = "CHARTSPEC_LOG_LEVEL"
	envLogTimeFormat = "CHARTSPEC_LOG_TIME_FORMAT"
	envLogColor      = "CHARTSPEC_LOG_COLOR"
	envLogJSON       = "CHARTSPEC_LOG_JSON"
)

func init() {
	cfg, err := logConfigFromEnv()
	if err != nil {
		panic(err)
	}

	log, err := zerolog.New(cfg)
	if err != nil {
		panic(err)
	}

	DefaultLog = zerolog.NewAdapter(log)
}

// logConfigFromEnv reads the logger configuration from environment variables
func logConfigFromEnv() (zerolog.Config, error) {
	colored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return zerolog.Config{}, err
	}

	json, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return zerolog.Config{}, err
	}

	return zerolog.Config{
		Level:      getEnvWithDefault(envLogLevel, defaultLogLevel),
		TimeLayout: getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat),
		Colored:    colored,
		JSON:       json,
		Output:     os.Stdout,
	}, nil
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseBoolEnv gets a boolean environment variable with a default value
func parseBoolEnv(key, defaultValue string) (bool, error) {
	return strconv.ParseBool(getEnvWithDefault(key, defaultValue))
}
