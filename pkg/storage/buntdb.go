// Package storage keeps the orders of a run so they can be replayed onto a chart.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/tidwall/buntdb"

	"github.com/raykavin/chartspec/pkg/core"
	"github.com/raykavin/chartspec/pkg/logger"
)

const updateIndex = "update_index"

// ErrOrderNotFound is returned when updating an order that was never created
var ErrOrderNotFound = errors.New("order not found")

// BuntStorage implements core.OrderStorage over BuntDB, keyed by order id and
// iterated by update time
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
	log    logger.Logger
}

// FromMemory creates an in-memory storage
func FromMemory(log logger.Logger) (*BuntStorage, error) {
	return NewBuntStorage(":memory:", log)
}

// FromFile opens or creates a file-based storage
func FromFile(file string, log logger.Logger) (*BuntStorage, error) {
	return NewBuntStorage(file, log)
}

// NewBuntStorage opens the database and resumes id generation after the highest stored id
func NewBuntStorage(sourceFile string, log logger.Logger) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(updateIndex, "*", buntdb.IndexJSON("updated_at"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	storage := &BuntStorage{db: db, log: log}

	err = db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("*", func(key, _ string) bool {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > storage.lastID {
				storage.lastID = id
			}
			return true
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to scan order ids: %w", err)
	}

	return storage, nil
}

func (b *BuntStorage) nextID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateOrder stores a new order. Orders without an id get the next free one.
func (b *BuntStorage) CreateOrder(order *core.Order) error {
	if order.ID == 0 {
		order.ID = b.nextID()
	} else {
		for {
			last := atomic.LoadInt64(&b.lastID)
			if order.ID <= last || atomic.CompareAndSwapInt64(&b.lastID, last, order.ID) {
				break
			}
		}
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		return set(tx, order)
	})
}

// UpdateOrder replaces the stored state of an existing order
func (b *BuntStorage) UpdateOrder(order *core.Order) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(strconv.FormatInt(order.ID, 10)); err != nil {
			if errors.Is(err, buntdb.ErrNotFound) {
				return fmt.Errorf("%d: %w", order.ID, ErrOrderNotFound)
			}
			return err
		}
		return set(tx, order)
	})
}

func set(tx *buntdb.Tx, order *core.Order) error {
	content, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	if _, _, err = tx.Set(strconv.FormatInt(order.ID, 10), string(content), nil); err != nil {
		return fmt.Errorf("failed to store order: %w", err)
	}
	return nil
}

// Orders returns the stored orders passing every filter, oldest update first
func (b *BuntStorage) Orders(filters ...core.OrderFilter) ([]*core.Order, error) {
	orders := make([]*core.Order, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(updateIndex, func(key, value string) bool {
			var order core.Order
			if err := json.Unmarshal([]byte(value), &order); err != nil {
				b.log.WithField("key", key).WithError(err).Warn("skipping unreadable order")
				return true
			}

			for _, filter := range filters {
				if !filter(order) {
					return true
				}
			}

			orders = append(orders, &order)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over orders: %w", err)
	}

	return orders, nil
}

// Close closes the database
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
