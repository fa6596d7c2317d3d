package exchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/raykavin/chartspec/pkg/core"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	defaultHeaderMap    = map[string]int{
		"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
	}
)

// ReadCandles loads completed candles of pair from a CSV file. The file either
// has a header row naming at least time,open,close,low,high,volume (extra
// columns go to Metadata) or uses that column order without a header.
func ReadCandles(file, pair string) ([]core.Candle, error) {
	csvFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer csvFile.Close()

	lines, err := csv.NewReader(csvFile).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrInsufficientData)
	}

	headerMap, additional, hasHeader := parseHeaders(lines[0])
	if hasHeader {
		lines = lines[1:]
	}

	candles := make([]core.Candle, 0, len(lines))
	for i, line := range lines {
		candle, err := parseCandleFromLine(line, headerMap, additional, pair)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", file, i+1, err)
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// parseHeaders returns the column index of each field and the extra columns
func parseHeaders(headers []string) (headerMap map[string]int, additional []string, hasHeader bool) {
	if _, err := strconv.Atoi(headers[0]); err == nil {
		return defaultHeaderMap, nil, false
	}

	headerMap = make(map[string]int)
	for index, header := range headers {
		headerMap[header] = index
		if _, exists := defaultHeaderMap[header]; !exists {
			additional = append(additional, header)
		}
	}

	return headerMap, additional, true
}

func parseCandleFromLine(line []string, headerMap map[string]int, additional []string, pair string) (core.Candle, error) {
	timestamp, err := strconv.ParseInt(line[headerMap["time"]], 10, 64)
	if err != nil {
		return core.Candle{}, err
	}

	candle := core.Candle{
		Time:      time.Unix(timestamp, 0).UTC(),
		UpdatedAt: time.Unix(timestamp, 0).UTC(),
		Pair:      pair,
		Complete:  true,
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &candle.Open},
		{"close", &candle.Close},
		{"low", &candle.Low},
		{"high", &candle.High},
		{"volume", &candle.Volume},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.ParseFloat(line[headerMap[f.name]], 64); err != nil {
			return core.Candle{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}

	if len(additional) > 0 {
		candle.Metadata = make(map[string]float64, len(additional))
		for _, header := range additional {
			value, err := strconv.ParseFloat(line[headerMap[header]], 64)
			if err != nil {
				return core.Candle{}, fmt.Errorf("invalid %s: %w", header, err)
			}
			candle.Metadata[header] = value
		}
	}

	return candle, nil
}
