package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// OrderDetails bundles an order with its line items.
type OrderDetails struct {
	Order *model.Order
	Items []model.OrderItem
}

// OrderUseCase serves storefront order queries and pending-order expiry.
type OrderUseCase struct {
	orders repository.OrderRepository
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, uow repository.UnitOfWork, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, uow: uow, logger: logger}
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// GetForUser returns one order with items, hiding orders the user does
// not own behind ErrNotFound.
func (u *OrderUseCase) GetForUser(ctx context.Context, userID, orderID int64) (*OrderDetails, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.detailsForUser(ctx, userID, order)
}

// GetByNumberForUser resolves an order by its externally visible number.
func (u *OrderUseCase) GetByNumberForUser(ctx context.Context, userID int64, number string) (*OrderDetails, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return u.detailsForUser(ctx, userID, order)
}

func (u *OrderUseCase) detailsForUser(ctx context.Context, userID int64, order *model.Order) (*OrderDetails, error) {
	if order.UserID == nil || *order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	items, err := u.orders.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: order, Items: items}, nil
}

// StalePending lists pending_payment orders older than the given age.
func (u *OrderUseCase) StalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	return u.orders.ListStalePending(ctx, time.Now().Add(-olderThan), limit)
}

// Expire transitions an abandoned pending order to expired and returns
// its reserved stock. Orders that left pending_payment in the meantime
// are untouched.
func (u *OrderUseCase) Expire(ctx context.Context, number string) error {
	return u.uow.Do(ctx, func(r repository.Factory) error {
		order, err := r.Orders().GetByNumberForUpdate(ctx, number)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil
			}
			return err
		}
		if order.Status != model.OrderStatusPendingPayment {
			return nil
		}

		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusExpired); err != nil {
			return err
		}

		items, err := r.Orders().ListItems(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := r.Inventory().Release(ctx, *item.ProductID, int64(item.Quantity)); err != nil {
				return err
			}
		}

		u.logger.Info("pending order expired, stock released",
			slog.String("order", order.Number),
			slog.Int("items", len(items)),
		)
		return nil
	})
}
