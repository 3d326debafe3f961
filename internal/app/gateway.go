package app

import (
	"context"

	"github.com/coffeebeans/shop/internal/adapter/mercadopago"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/usecase"
)

// paymentGateway adapts the processor client to the use-case port.
type paymentGateway struct {
	client mercadopago.Client
}

// NewPaymentGateway wraps a processor client for the use cases.
func NewPaymentGateway(client mercadopago.Client) usecase.PaymentGateway {
	return &paymentGateway{client: client}
}

func (g *paymentGateway) CreatePreference(ctx context.Context, order *model.Order, items []model.CartItem) (*model.Preference, error) {
	lines := make([]mercadopago.PreferenceItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, mercadopago.PreferenceItem{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: usecase.FromMinorUnits(item.UnitPriceCents).InexactFloat64(),
		})
	}
	return g.client.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items:             lines,
		ExternalReference: order.Number,
		PayerName:         order.CustomerName,
		PayerEmail:        order.CustomerEmail,
	})
}

func (g *paymentGateway) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return g.client.GetPayment(ctx, paymentID)
}

func (g *paymentGateway) GetMerchantOrder(ctx context.Context, merchantOrderID string) (*model.MerchantOrder, error) {
	return g.client.GetMerchantOrder(ctx, merchantOrderID)
}

func (g *paymentGateway) SearchPaymentsByReference(ctx context.Context, reference string) ([]model.Payment, error) {
	return g.client.SearchPaymentsByReference(ctx, reference)
}
