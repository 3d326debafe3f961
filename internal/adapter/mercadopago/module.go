package mercadopago

import (
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/coffeebeans/shop/internal/config"
)

// Module exposes the payment processor client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	callbackURL := strings.TrimRight(p.Config.PublicBaseURL, "/") + "/api/pay/mp/webhook"
	client, err := NewHTTPClient(
		p.Config.PaymentAPIAddress,
		p.Config.PaymentAccessToken,
		p.Config.CurrencyID,
		callbackURL,
		Options{
			MaxRetries: p.Config.ProviderMaxRetries,
			RetryBase:  p.Config.ProviderRetryBase,
		},
		p.Logger,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
