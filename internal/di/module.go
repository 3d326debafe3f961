package di

import (
	"go.uber.org/fx"

	"github.com/coffeebeans/shop/internal/adapter/mercadopago"
	"github.com/coffeebeans/shop/internal/app"
	"github.com/coffeebeans/shop/internal/config"
	"github.com/coffeebeans/shop/internal/logger"
	"github.com/coffeebeans/shop/internal/pkg/auth"
	"github.com/coffeebeans/shop/internal/server/http/handlers"
	"github.com/coffeebeans/shop/internal/server/http/router"
	"github.com/coffeebeans/shop/internal/storage/postgres"
	"github.com/coffeebeans/shop/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mercadopago.Module,
		usecase.Module,
		fx.Provide(func(f *app.ShopFacade) handlers.ShopFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
