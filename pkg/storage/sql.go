package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/raykavin/chartspec/pkg/core"
)

// SQLStorage implements core.OrderStorage over any GORM dialector
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the connection pool settings of a SQL storage
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the pool settings used by FromSQL and FromSQLite
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// FromSQLite opens or creates a SQLite database file with the pure Go driver
func FromSQLite(file string, opts ...gorm.Option) (*SQLStorage, error) {
	return NewSQLStorage(sqlite.Open(file), DefaultConfig(), opts...)
}

// FromSQL opens a storage over dialect with the default pool settings
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStorage, error) {
	return NewSQLStorage(dialect, DefaultConfig(), opts...)
}

// NewSQLStorage opens the database, applies config to its pool and migrates the order table
func NewSQLStorage(dialect gorm.Dialector, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&core.Order{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// CreateOrder stores a new order. Orders without an id get the next one from the database.
func (s *SQLStorage) CreateOrder(order *core.Order) error {
	if result := s.db.Create(order); result.Error != nil {
		return fmt.Errorf("failed to create order: %w", result.Error)
	}
	return nil
}

// UpdateOrder replaces the stored state of an existing order
func (s *SQLStorage) UpdateOrder(order *core.Order) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing core.Order
		if result := tx.First(&existing, order.ID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%d: %w", order.ID, ErrOrderNotFound)
			}
			return fmt.Errorf("failed to load order: %w", result.Error)
		}

		if result := tx.Save(order); result.Error != nil {
			return fmt.Errorf("failed to update order: %w", result.Error)
		}
		return nil
	})
}

// Orders returns the stored orders passing every filter, oldest update first
func (s *SQLStorage) Orders(filters ...core.OrderFilter) ([]*core.Order, error) {
	var orders []*core.Order
	if result := s.db.Order("updated_at, id").Find(&orders); result.Error != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", result.Error)
	}

	return lo.Filter(orders, func(order *core.Order, _ int) bool {
		for _, filter := range filters {
			if !filter(*order) {
				return false
			}
		}
		return true
	}), nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
