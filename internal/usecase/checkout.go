package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

const (
	orderNumberPrefix   = "CB"
	orderNumberAttempts = 5
)

// CheckoutInput carries everything a checkout request supplies.
type CheckoutInput struct {
	UserID          *int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	Items           []CartInput
}

// CheckoutResult is returned to the buyer after a successful checkout.
type CheckoutResult struct {
	Order        *model.Order
	PreferenceID string
}

// CheckoutUseCase builds orders: cart validation, totals, persistence,
// stock reservation and payment-intent creation, all inside one
// transaction.
type CheckoutUseCase struct {
	uow     repository.UnitOfWork
	gateway PaymentGateway
	logger  *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(uow repository.UnitOfWork, gateway PaymentGateway, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{uow: uow, gateway: gateway, logger: logger}
}

// Create validates the cart and creates the order. The payment intent is
// requested before commit: a provider failure rolls back the order, its
// items and the stock reservation.
func (u *CheckoutUseCase) Create(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	items := NormalizeCart(in.Items)
	if len(items) == 0 {
		return nil, domainErrors.ErrInvalidCart
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, domainErrors.ErrMissingContact
	}

	var total int64
	for _, item := range items {
		total += item.SubtotalCents()
	}

	var result *CheckoutResult
	err := u.uow.Do(ctx, func(r repository.Factory) error {
		order := &model.Order{
			UserID:          in.UserID,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			ShippingAddress: in.ShippingAddress,
			TotalCents:      total,
			Status:          model.OrderStatusPendingPayment,
		}
		if err := u.createWithFreshNumber(ctx, r, order); err != nil {
			return err
		}

		orderItems := make([]model.OrderItem, 0, len(items))
		for _, item := range items {
			line := model.OrderItem{
				Title:          item.Title,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
				SubtotalCents:  item.SubtotalCents(),
			}
			product, err := r.Products().FindByName(ctx, item.Title)
			switch {
			case err == nil:
				line.ProductID = &product.ID
				if err := r.Inventory().Ensure(ctx, product.ID); err != nil {
					return err
				}
				if err := r.Inventory().Reserve(ctx, product.ID, int64(item.Quantity)); err != nil {
					return err
				}
			case errors.Is(err, domainErrors.ErrNotFound):
				u.logger.Warn("cart item has no catalog product",
					slog.String("title", item.Title),
					slog.String("order", order.Number),
				)
			default:
				return err
			}
			orderItems = append(orderItems, line)
		}

		if err := r.Orders().AddItems(ctx, order.ID, orderItems); err != nil {
			return err
		}

		preference, err := u.gateway.CreatePreference(ctx, order, items)
		if err != nil {
			return fmt.Errorf("%w: %w", domainErrors.ErrProviderUnavailable, err)
		}

		result = &CheckoutResult{Order: order, PreferenceID: preference.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createWithFreshNumber inserts the order, regenerating the random order
// number suffix on a uniqueness conflict.
func (u *CheckoutUseCase) createWithFreshNumber(ctx context.Context, r repository.Factory, order *model.Order) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.Number = NewOrderNumber(time.Now())
		err := r.Orders().Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			return err
		}
	}
	return fmt.Errorf("order number space exhausted after %d attempts", orderNumberAttempts)
}

// NewOrderNumber builds a human-readable order number: date-stamped prefix
// plus a 4-digit random suffix.
func NewOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to the timestamp's own entropy.
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, now.UTC().Format("20060102"), n.Int64())
}
