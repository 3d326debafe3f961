package model

import "time"

// OrderStatus describes order payment lifecycle.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusApproved       OrderStatus = "approved"
	OrderStatusExpired        OrderStatus = "expired"
)

// Order describes a storefront purchase order.
type Order struct {
	ID              int64
	Number          string
	UserID          *int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	TotalCents      int64
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a single order line, immutable after creation.
// ProductID is resolved from the catalog once at checkout time and never
// re-resolved by title later.
type OrderItem struct {
	ID             int64
	OrderID        int64
	ProductID      *int64
	Title          string
	Quantity       int32
	UnitPriceCents int64
	SubtotalCents  int64
}
