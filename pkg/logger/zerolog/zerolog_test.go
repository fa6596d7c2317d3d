package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/raykavin/chartspec/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", JSON: true, Output: &buf})
	require.NoError(t, err)

	log := NewAdapter(l).WithField("pair", "BTCUSDT").WithError(errors.New("boom"))
	log.Info("composed")
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "composed", entry["message"])
	require.Equal(t, "BTCUSDT", entry["pair"])
	require.Equal(t, "boom", entry["error"])
	require.Equal(t, "info", entry["level"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestLevelConversion(t *testing.T) {
	for _, level := range []logger.Level{logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel} {
		require.Equal(t, level, toLevel(toZerologLevel(level)))
	}
	require.Equal(t, logger.NoLevel, toLevel(toZerologLevel(logger.Level(99))))
}

func TestFormatCaller(t *testing.T) {
	require.Equal(t, "", formatCaller(nil))
	require.Equal(t, "main.go", formatCaller("/src/main.go"))
	require.Contains(t, formatCaller("/src/compose.go:42"), "compose.go")
}
