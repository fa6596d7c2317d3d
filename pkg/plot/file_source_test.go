package plot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartspec/pkg/core"
)

type memoryOrders struct {
	orders []*core.Order
}

func (m *memoryOrders) CreateOrder(order *core.Order) error {
	m.orders = append(m.orders, order)
	return nil
}

func (m *memoryOrders) UpdateOrder(*core.Order) error { return nil }

func (m *memoryOrders) Orders(filters ...core.OrderFilter) ([]*core.Order, error) {
	result := make([]*core.Order, 0)
	for _, o := range m.orders {
		keep := true
		for _, f := range filters {
			keep = keep && f(*o)
		}
		if keep {
			result = append(result, o)
		}
	}
	return result, nil
}

func writePayload(t *testing.T, dir, pair string, payload Payload) {
	t.Helper()
	content, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, pair+".json"), content, 0o600))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "ETHUSDT", Payload{})
	writePayload(t, dir, "BTCUSDT", samplePayload())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o700))

	source := NewFileSource(dir)
	ctx := context.Background()

	pairs, err := source.Pairs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, pairs)

	payload, err := source.Payload(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Candles, 2)
	require.Equal(t, "USDT", payload.Quote)
	require.NoError(t, payload.Validate())

	require.WithinDuration(t, time.Now(), source.LastUpdate(), time.Minute)
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BAD.json"), []byte("{"), 0o600))
	source := NewFileSource(dir)

	for _, pair := range []string{"XRPUSDT", "", "../BTCUSDT", ".hidden"} {
		_, err := source.Payload(context.Background(), pair)
		require.ErrorIs(t, err, core.ErrPairNotFound, pair)
	}

	_, err := source.Payload(context.Background(), "BAD")
	require.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewFileSource(filepath.Join(dir, "missing")).Pairs(context.Background())
	require.Error(t, err)
}

func TestFileSource_StoredOrders(t *testing.T) {
	dir := t.TempDir()
	writePayload(t, dir, "BTCUSDT", Payload{
		Candles: []Candle{{Time: t0, Low: 90, High: 110}, {Time: t0.Add(time.Hour), Low: 90, High: 110}},
	})

	stored := &memoryOrders{}
	late := filled(1, core.SideTypeBuy, 100)
	late.UpdatedAt = t0.Add(2 * time.Hour)
	pending := filled(2, core.SideTypeSell, 105)
	pending.Status = core.OrderStatusTypeNew
	other := filled(3, core.SideTypeBuy, 10)
	other.Pair = "ETHUSDT"
	for _, o := range []core.Order{late, pending, other} {
		require.NoError(t, stored.CreateOrder(&o))
	}

	payload, err := NewFileSource(dir, WithStoredOrders(stored)).Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, payload.Orders, 1)
	require.Equal(t, int64(1), payload.Orders[0].ID)

	spec, err := Compose(payload)
	require.NoError(t, err)
	buys := spec.Data[len(spec.Data)-2]
	require.Equal(t, "Buy Points", buys.Name)
	require.Equal(t, []time.Time{t0.Add(time.Hour)}, buys.X)
}

func TestFileSource_StoredOrdersSkipKnownIDs(t *testing.T) {
	dir := t.TempDir()
	onCandle := filled(1, core.SideTypeBuy, 100)
	loose := filled(2, core.SideTypeSell, 105)
	loose.UpdatedAt = t0.Add(time.Hour)
	writePayload(t, dir, "BTCUSDT", Payload{
		Candles: []Candle{
			{Time: t0, Low: 90, High: 110, Orders: []core.Order{onCandle}},
			{Time: t0.Add(time.Hour), Low: 90, High: 110},
		},
		Orders: []core.Order{loose},
	})

	stored := &memoryOrders{}
	fresh := filled(3, core.SideTypeBuy, 101)
	fresh.UpdatedAt = t0.Add(time.Hour)
	for _, o := range []core.Order{onCandle, loose, fresh} {
		require.NoError(t, stored.CreateOrder(&o))
	}

	payload, err := NewFileSource(dir, WithStoredOrders(stored)).Payload(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, Column(payload.Orders, func(o core.Order) int64 { return o.ID }))

	spec, err := Compose(payload)
	require.NoError(t, err)
	require.Len(t, spec.Layout.Annotations, 3)

	buys := spec.Data[len(spec.Data)-2]
	require.Equal(t, "Buy Points", buys.Name)
	require.Equal(t, []time.Time{t0, t0.Add(time.Hour)}, buys.X)
}
