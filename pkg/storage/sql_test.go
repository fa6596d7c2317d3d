package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/raykavin/chartspec/pkg/core"
)

func orderIDs(orders []*core.Order) []int64 {
	return lo.Map(orders, func(o *core.Order, _ int) int64 { return o.ID })
}

func TestSQLStorage(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	file := filepath.Join(t.TempDir(), "orders.sqlite")

	repo, err := FromSQL(sqlite.Open(file), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	defer repo.Close()

	first := &core.Order{Pair: "BTCUSDT", Side: core.SideTypeBuy, Status: core.OrderStatusTypeFilled,
		Price: 100, Quantity: 1, RefPrice: 95, UpdatedAt: now.Add(time.Minute)}
	second := &core.Order{Pair: "ETHUSDT", Side: core.SideTypeSell, Status: core.OrderStatusTypeNew, UpdatedAt: now}

	require.NoError(t, repo.CreateOrder(first))
	require.NoError(t, repo.CreateOrder(second))
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	t.Run("ordered by update time", func(t *testing.T) {
		orders, err := repo.Orders()
		require.NoError(t, err)
		require.Equal(t, []int64{2, 1}, orderIDs(orders))
		require.Equal(t, 95.0, orders[1].RefPrice)
		require.True(t, orders[1].UpdatedAt.Equal(now.Add(time.Minute)))
	})

	t.Run("filters", func(t *testing.T) {
		orders, err := repo.Orders(core.WithPair("BTCUSDT"), core.WithStatus(core.OrderStatusTypeFilled))
		require.NoError(t, err)
		require.Equal(t, []int64{1}, orderIDs(orders))

		orders, err = repo.Orders(core.WithUpdateAtBeforeOrEqual(now))
		require.NoError(t, err)
		require.Equal(t, []int64{2}, orderIDs(orders))
	})

	t.Run("update keeps the order time", func(t *testing.T) {
		second.Status = core.OrderStatusTypeFilled
		require.NoError(t, repo.UpdateOrder(second))

		orders, err := repo.Orders(core.WithStatusIn(core.OrderStatusTypeFilled))
		require.NoError(t, err)
		require.Equal(t, []int64{2, 1}, orderIDs(orders))
		require.True(t, orders[0].UpdatedAt.Equal(now))
	})

	t.Run("update unknown", func(t *testing.T) {
		err := repo.UpdateOrder(&core.Order{ID: 42})
		require.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("explicit ids are kept", func(t *testing.T) {
		order := &core.Order{ID: 10, Pair: "BTCUSDT", UpdatedAt: now}
		require.NoError(t, repo.CreateOrder(order))

		next := &core.Order{Pair: "BTCUSDT", UpdatedAt: now}
		require.NoError(t, repo.CreateOrder(next))
		require.Equal(t, int64(11), next.ID)
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger(t)

	sqlRepo, err := Open("sqlite:"+filepath.Join(dir, "orders.sqlite"), log)
	require.NoError(t, err)
	require.IsType(t, &SQLStorage{}, sqlRepo)
	require.NoError(t, sqlRepo.CreateOrder(&core.Order{Pair: "BTCUSDT"}))
	require.NoError(t, sqlRepo.Close())

	buntRepo, err := Open(filepath.Join(dir, "orders.db"), log)
	require.NoError(t, err)
	require.IsType(t, &BuntStorage{}, buntRepo)
	require.NoError(t, buntRepo.Close())

	sqlRepo, err = Open("sqlite:"+filepath.Join(dir, "orders.sqlite"), log)
	require.NoError(t, err)
	defer sqlRepo.Close()
	orders, err := sqlRepo.Orders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
}
