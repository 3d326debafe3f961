package repository

import (
	"context"
	"time"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their
// line items.
type OrderRepository interface {
	// Create inserts the order and fills its ID and timestamps. Returns
	// ErrAlreadyExists when the order number is already taken.
	Create(ctx context.Context, order *model.Order) error
	AddItems(ctx context.Context, orderID int64, items []model.OrderItem) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	// GetByNumberForUpdate locks the order row for the remainder of the
	// enclosing transaction to serialize concurrent confirmations.
	GetByNumberForUpdate(ctx context.Context, number string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// ListStalePending returns pending_payment orders created before the
	// given instant, oldest first.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
}
