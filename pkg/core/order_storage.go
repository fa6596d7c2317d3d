package core

import (
	"slices"
	"time"
)

// OrderStorage defines the interface for order storage operations
type OrderStorage interface {
	// CreateOrder stores a new order
	CreateOrder(order *Order) error

	// UpdateOrder updates an existing order
	UpdateOrder(order *Order) error

	// Orders retrieves orders based on provided filters
	Orders(filters ...OrderFilter) ([]*Order, error)
}

// WithStatusIn keeps orders whose status is one of status
func WithStatusIn(status ...OrderStatusType) OrderFilter {
	return func(order Order) bool {
		return slices.Contains(status, order.Status)
	}
}

// WithStatus keeps orders with the given status
func WithStatus(status OrderStatusType) OrderFilter {
	return func(order Order) bool {
		return order.Status == status
	}
}

// WithPair keeps orders of a single pair
func WithPair(pair string) OrderFilter {
	return func(order Order) bool {
		return order.Pair == pair
	}
}

// WithUpdateAtBeforeOrEqual keeps orders updated at or before t
func WithUpdateAtBeforeOrEqual(t time.Time) OrderFilter {
	return func(order Order) bool {
		return !order.UpdatedAt.After(t)
	}
}
