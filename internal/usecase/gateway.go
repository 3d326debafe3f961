package usecase

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// PaymentGateway is the slice of the payment processor API the order flow
// depends on.
type PaymentGateway interface {
	// CreatePreference opens a hosted payment session for the order,
	// carrying the order number as external correlation reference.
	CreatePreference(ctx context.Context, order *model.Order, items []model.CartItem) (*model.Preference, error)
	// GetPayment returns the processor's canonical payment record.
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	GetMerchantOrder(ctx context.Context, merchantOrderID string) (*model.MerchantOrder, error)
	SearchPaymentsByReference(ctx context.Context, reference string) ([]model.Payment, error)
}
