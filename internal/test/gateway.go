package test

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// PaymentGatewayStub provides controllable payment processor behaviour.
type PaymentGatewayStub struct {
	CreatePreferenceFn func(context.Context, *model.Order, []model.CartItem) (*model.Preference, error)
	GetPaymentFn       func(context.Context, string) (*model.Payment, error)
	GetMerchantOrderFn func(context.Context, string) (*model.MerchantOrder, error)
	SearchFn           func(context.Context, string) ([]model.Payment, error)

	PreferenceCalls int
	PaymentCalls    int
}

// CreatePreference delegates to the override or returns a static preference.
func (s *PaymentGatewayStub) CreatePreference(ctx context.Context, order *model.Order, items []model.CartItem) (*model.Preference, error) {
	s.PreferenceCalls++
	if s.CreatePreferenceFn != nil {
		return s.CreatePreferenceFn(ctx, order, items)
	}
	return &model.Preference{ID: "pref-1", InitPoint: "https://pay.example/pref-1"}, nil
}

// GetPayment delegates to the override or returns an approved payment.
func (s *PaymentGatewayStub) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	s.PaymentCalls++
	if s.GetPaymentFn != nil {
		return s.GetPaymentFn(ctx, paymentID)
	}
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusApproved}, nil
}

// GetMerchantOrder delegates to the override or returns an empty order.
func (s *PaymentGatewayStub) GetMerchantOrder(ctx context.Context, merchantOrderID string) (*model.MerchantOrder, error) {
	if s.GetMerchantOrderFn != nil {
		return s.GetMerchantOrderFn(ctx, merchantOrderID)
	}
	return &model.MerchantOrder{ID: merchantOrderID}, nil
}

// SearchPaymentsByReference delegates to the override or finds nothing.
func (s *PaymentGatewayStub) SearchPaymentsByReference(ctx context.Context, reference string) ([]model.Payment, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, reference)
	}
	return nil, nil
}
