package core

import (
	"time"
)

// CandleSubscriber receives candle events
type CandleSubscriber interface {
	OnCandle(Candle)
}

// OrderSubscriber receives order events
type OrderSubscriber interface {
	OnOrder(Order)
}

// Candle represents a trading candle with OHLCV data
type Candle struct {
	Pair      string
	Time      time.Time
	UpdatedAt time.Time
	Open      float64
	Close     float64
	Low       float64
	High      float64
	Volume    float64
	Complete  bool

	// Additional columns from CSV inputs
	Metadata map[string]float64
}
