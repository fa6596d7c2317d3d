package core

import (
	"fmt"
	"time"
)

// OrderFilter defines a function type for filtering orders
type OrderFilter func(order Order) bool

// SideType represents the direction of an order (BUY or SELL)
type SideType string

// OrderType represents the type of order (LIMIT, MARKET, etc.)
type OrderType string

// OrderStatusType represents the status of an order (NEW, FILLED, etc.)
type OrderStatusType string

// Order side constants
const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"
)

// Order type constants
const (
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimitMaker OrderType = "LIMIT_MAKER"
	OrderTypeStopLoss   OrderType = "STOP_LOSS"
)

// Order status constants
const (
	OrderStatusTypeNew             OrderStatusType = "NEW"
	OrderStatusTypePartiallyFilled OrderStatusType = "PARTIALLY_FILLED"
	OrderStatusTypeFilled          OrderStatusType = "FILLED"
	OrderStatusTypeCanceled        OrderStatusType = "CANCELED"
	OrderStatusTypeRejected        OrderStatusType = "REJECTED"
	OrderStatusTypeExpired         OrderStatusType = "EXPIRED"
)

// Order is an executed or pending order as it reaches the chart
type Order struct {
	ID       int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Pair     string          `json:"pair"`
	Side     SideType        `json:"side" validate:"oneof=BUY SELL"`
	Type     OrderType       `json:"type"`
	Status   OrderStatusType `json:"status"`
	Price    float64         `json:"price"`
	Quantity float64         `json:"quantity"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index;autoUpdateTime:false"`

	// Reference price of stop-loss and limit-maker orders, used for range shapes
	RefPrice float64 `json:"ref_price"`

	// Profit is a signed fraction, zero when the order closed nothing
	Profit float64 `json:"profit"`
}

// IsBuy returns true if the order is a buy order
func (o Order) IsBuy() bool {
	return o.Side == SideTypeBuy
}

// IsSell returns true if the order is a sell order
func (o Order) IsSell() bool {
	return o.Side == SideTypeSell
}

// IsFilled returns true if the order is completely filled
func (o Order) IsFilled() bool {
	return o.Status == OrderStatusTypeFilled
}

// Total returns price * quantity
func (o Order) Total() float64 {
	return o.Price * o.Quantity
}

// String returns a human-readable representation of the order
func (o Order) String() string {
	return fmt.Sprintf("[%s] %s %s | ID: %d, Type: %s, %f x $%f (~$%.2f)",
		o.Status, o.Side, o.Pair, o.ID, o.Type, o.Quantity, o.Price, o.Total())
}
