package exchange

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// AssetQuote is the base asset and quote currency of a pair
type AssetQuote struct {
	Quote string `json:"quote"`
	Asset string `json:"asset"`
}

// knownQuotes are tried as suffixes when a pair is not registered, longest first
var knownQuotes = []string{"FDUSD", "USDT", "USDC", "BUSD", "TUSD", "BTC", "ETH", "BNB", "EUR", "BRL", "USD", "TRY"}

// PairService resolves trading pairs into asset and quote
type PairService struct {
	mu      sync.RWMutex
	pairMap map[string]AssetQuote
}

var defaultPairService = &PairService{pairMap: make(map[string]AssetQuote)}

// NewPairService creates a service seeded with a JSON object of pair -> {asset, quote}
func NewPairService(pairsData []byte) (*PairService, error) {
	service := &PairService{
		pairMap: make(map[string]AssetQuote),
	}

	if len(pairsData) > 0 {
		if err := json.Unmarshal(pairsData, &service.pairMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pairs data: %w", err)
		}
	}

	return service, nil
}

// Register adds or replaces a pair definition
func (s *PairService) Register(pair string, aq AssetQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairMap[pair] = aq
}

// Split returns asset and quote of pair. Registered pairs win, then an explicit
// separator ("BTC/USDT", "BTC-USDT"), then a known quote suffix ("BTCUSDT").
// Unknown pairs return empty strings.
func (s *PairService) Split(pair string) (asset, quote string) {
	s.mu.RLock()
	data, exists := s.pairMap[pair]
	s.mu.RUnlock()
	if exists {
		return data.Asset, data.Quote
	}

	for _, sep := range []string{"/", "-", "_"} {
		if a, q, found := strings.Cut(pair, sep); found && a != "" && q != "" {
			return strings.ToUpper(a), strings.ToUpper(q)
		}
	}

	upper := strings.ToUpper(pair)
	for _, q := range knownQuotes {
		if a, found := strings.CutSuffix(upper, q); found && a != "" {
			return a, q
		}
	}

	return "", ""
}

// SplitAssetQuote splits pair with the default service
func SplitAssetQuote(pair string) (asset string, quote string) {
	return defaultPairService.Split(pair)
}

// RegisterPair registers a pair on the default service
func RegisterPair(pair string, aq AssetQuote) {
	defaultPairService.Register(pair, aq)
}
