package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
}

// OrderFacade encapsulates checkout and order queries exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	OrderByID(ctx context.Context, userID, orderID int64) (*usecase.OrderDetails, error)
	OrderByNumber(ctx context.Context, userID int64, number string) (*usecase.OrderDetails, error)
}

// PaymentFacade handles processor notifications.
type PaymentFacade interface {
	HandlePaymentNotification(ctx context.Context, topic, resourceID string) error
}

// CashboxFacade provides ledger operations for the admin surface.
type CashboxFacade interface {
	CashBalance(ctx context.Context) (decimal.Decimal, error)
	CashMovements(ctx context.Context, limit int) ([]model.CashMovement, error)
	CashCredit(ctx context.Context, concept string, amount decimal.Decimal) error
	CashDebit(ctx context.Context, concept string, amount decimal.Decimal) error
}

// InventoryFacade provides stock adjustments for the admin surface.
type InventoryFacade interface {
	AdjustInventory(ctx context.Context, productID int64, stock, minStock *int64, increment bool) (*usecase.InventoryView, error)
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	AuthFacade
	OrderFacade
	PaymentFacade
	CashboxFacade
	InventoryFacade
}
