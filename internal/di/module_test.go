package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/coffeebeans/shop/internal/adapter/mercadopago"
	"github.com/coffeebeans/shop/internal/app"
	"github.com/coffeebeans/shop/internal/config"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
	"github.com/coffeebeans/shop/internal/storage/postgres"
	"github.com/coffeebeans/shop/internal/test"
)

type clientStub struct{}

func (clientStub) CreatePreference(context.Context, mercadopago.PreferenceRequest) (*model.Preference, error) {
	return &model.Preference{ID: "pref-1"}, nil
}

func (clientStub) GetPayment(_ context.Context, paymentID string) (*model.Payment, error) {
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusApproved}, nil
}

func (clientStub) GetMerchantOrder(_ context.Context, merchantOrderID string) (*model.MerchantOrder, error) {
	return &model.MerchantOrder{ID: merchantOrderID}, nil
}

func (clientStub) SearchPaymentsByReference(context.Context, string) ([]model.Payment, error) {
	return nil, nil
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		PaymentAPIAddress: "http://localhost",
		JWTSecret:         "secret",
		ReconcileInterval: time.Millisecond,
		PendingOrderTTL:   time.Minute,
		MaxOrdersBatch:    1,
		WorkerPoolSize:    1,
		ShutdownTimeout:   time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	factory := test.NewFactoryStub()
	uow := test.NewUnitOfWorkStub(factory)

	var facade *app.ShopFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.Factory(factory)),
			fx.Replace(repository.UnitOfWork(uow)),
			fx.Replace(repository.UserRepository(factory.UsersStub)),
			fx.Replace(repository.ProductRepository(factory.ProductsStub)),
			fx.Replace(repository.OrderRepository(factory.OrdersStub)),
			fx.Replace(repository.InventoryRepository(factory.InventoryStub)),
			fx.Replace(repository.CashboxRepository(factory.CashboxStub)),
			fx.Replace(repository.ProcessedPaymentRepository(factory.ProcessedStub)),
			fx.Replace(mercadopago.Client(clientStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected shop facade instance")
	}
}
