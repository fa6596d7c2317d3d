// Package config loads the settings of `chartspec serve`.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server"`
	Data   Data   `yaml:"data"`
	Chart  Chart  `yaml:"chart"`
}

type Server struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
	// Stale is how long without updates the health check tolerates, e.g. "1h10m" or "1d"
	Stale string `yaml:"stale"`
}

type Data struct {
	Dir string `yaml:"dir"`
	// Orders is a BuntDB file, or "sqlite:<file>" for a SQLite database
	Orders  string            `yaml:"orders"`
	Candles map[string]string `yaml:"candles"`
	// Balance is the quote amount the replay wallet of --candles starts with
	Balance float64 `yaml:"balance"`
}

type Chart struct {
	Position   *bool  `yaml:"position"`
	Drawdown   *bool  `yaml:"drawdown"`
	Indicators *bool  `yaml:"indicators"`
	Template   string `yaml:"template"`
}

// Default returns the settings used when no file is given
func Default() *Config {
	return &Config{
		Server: Server{Port: 8080, Stale: "1h10m"},
		Data:   Data{Balance: 10000},
	}
}

// Load reads a YAML file over the defaults
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}

	if _, err := config.StaleAfter(); err != nil {
		return nil, err
	}

	return config, nil
}

// StaleAfter parses the stale threshold; day and week units are accepted
func (c *Config) StaleAfter() (time.Duration, error) {
	d, err := ParseDuration(c.Server.Stale)
	if err != nil {
		return 0, fmt.Errorf("server.stale: %w", err)
	}
	return d, nil
}

// ParseDuration parses durations such as "90s", "1h10m" or "2d"
func ParseDuration(value string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be positive", value)
	}
	return d, nil
}

// Enabled reports a toggle, true when unset
func Enabled(toggle *bool) bool {
	return toggle == nil || *toggle
}
