package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAssetQuote(t *testing.T) {
	tt := []struct {
		pair  string
		asset string
		quote string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHBTC", "ETH", "BTC"},
		{"BTC/USDT", "BTC", "USDT"},
		{"sol-usdc", "SOL", "USDC"},
		{"BNBFDUSD", "BNB", "FDUSD"},
		{"UNKNOWN", "", ""},
		{"", "", ""},
	}

	for _, tc := range tt {
		t.Run(tc.pair, func(t *testing.T) {
			asset, quote := SplitAssetQuote(tc.pair)
			require.Equal(t, tc.asset, asset)
			require.Equal(t, tc.quote, quote)
		})
	}
}

func TestPairService_Registered(t *testing.T) {
	service, err := NewPairService([]byte(`{"XYZABC": {"asset": "XY", "quote": "ZABC"}}`))
	require.NoError(t, err)

	asset, quote := service.Split("XYZABC")
	require.Equal(t, "XY", asset)
	require.Equal(t, "ZABC", quote)

	service.Register("LUNAUST", AssetQuote{Asset: "LUNA", Quote: "UST"})
	asset, quote = service.Split("LUNAUST")
	require.Equal(t, "LUNA", asset)
	require.Equal(t, "UST", quote)
}

func TestNewPairService_Invalid(t *testing.T) {
	_, err := NewPairService([]byte(`[`))
	require.Error(t, err)
}
