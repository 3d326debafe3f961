package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/usecase"
)

// ShopFacade aggregates the application use cases behind one surface for
// the HTTP layer and the reconcile worker.
type ShopFacade struct {
	auth      *usecase.AuthUseCase
	checkout  *usecase.CheckoutUseCase
	payments  *usecase.PaymentUseCase
	orders    *usecase.OrderUseCase
	cashbox   *usecase.CashboxUseCase
	inventory *usecase.InventoryUseCase
	gateway   usecase.PaymentGateway
}

// NewShopFacade constructs ShopFacade.
func NewShopFacade(
	auth *usecase.AuthUseCase,
	checkout *usecase.CheckoutUseCase,
	payments *usecase.PaymentUseCase,
	orders *usecase.OrderUseCase,
	cashbox *usecase.CashboxUseCase,
	inventory *usecase.InventoryUseCase,
	gateway usecase.PaymentGateway,
) *ShopFacade {
	return &ShopFacade{
		auth:      auth,
		checkout:  checkout,
		payments:  payments,
		orders:    orders,
		cashbox:   cashbox,
		inventory: inventory,
		gateway:   gateway,
	}
}

func (f *ShopFacade) Register(ctx context.Context, name, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, password)
	return token, err
}

func (f *ShopFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *ShopFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *ShopFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.auth.GetByID(ctx, userID)
}

func (f *ShopFacade) Checkout(ctx context.Context, in usecase.CheckoutInput) (*usecase.CheckoutResult, error) {
	return f.checkout.Create(ctx, in)
}

func (f *ShopFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *ShopFacade) OrderByID(ctx context.Context, userID, orderID int64) (*usecase.OrderDetails, error) {
	return f.orders.GetForUser(ctx, userID, orderID)
}

func (f *ShopFacade) OrderByNumber(ctx context.Context, userID int64, number string) (*usecase.OrderDetails, error) {
	return f.orders.GetByNumberForUser(ctx, userID, number)
}

func (f *ShopFacade) HandlePaymentNotification(ctx context.Context, topic, resourceID string) error {
	return f.payments.ProcessNotification(ctx, topic, resourceID)
}

func (f *ShopFacade) ConfirmPayment(ctx context.Context, paymentID string) error {
	return f.payments.Confirm(ctx, paymentID)
}

func (f *ShopFacade) StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	return f.orders.StalePending(ctx, olderThan, limit)
}

func (f *ShopFacade) ExpireOrder(ctx context.Context, number string) error {
	return f.orders.Expire(ctx, number)
}

func (f *ShopFacade) SearchPayments(ctx context.Context, reference string) ([]model.Payment, error) {
	return f.gateway.SearchPaymentsByReference(ctx, reference)
}

func (f *ShopFacade) CashBalance(ctx context.Context) (decimal.Decimal, error) {
	return f.cashbox.Balance(ctx)
}

func (f *ShopFacade) CashMovements(ctx context.Context, limit int) ([]model.CashMovement, error) {
	return f.cashbox.Movements(ctx, limit)
}

func (f *ShopFacade) CashCredit(ctx context.Context, concept string, amount decimal.Decimal) error {
	return f.cashbox.Credit(ctx, concept, amount)
}

func (f *ShopFacade) CashDebit(ctx context.Context, concept string, amount decimal.Decimal) error {
	return f.cashbox.Debit(ctx, concept, amount)
}

func (f *ShopFacade) AdjustInventory(ctx context.Context, productID int64, stock, minStock *int64, increment bool) (*usecase.InventoryView, error) {
	return f.inventory.Adjust(ctx, productID, stock, minStock, increment)
}
