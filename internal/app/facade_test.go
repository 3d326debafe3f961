package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coffeebeans/shop/internal/domain/model"
	testhelpers "github.com/coffeebeans/shop/internal/test"
	"github.com/coffeebeans/shop/internal/usecase"
)

func newTestFacade(t *testing.T) (*ShopFacade, *testhelpers.FactoryStub, *testhelpers.PaymentGatewayStub) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	factory := testhelpers.NewFactoryStub()
	uow := testhelpers.NewUnitOfWorkStub(factory)
	gateway := &testhelpers.PaymentGatewayStub{}

	strategy := testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			_, err := fmt.Sscanf(token, "token-%d", &id)
			return id, err
		},
	}

	facade := NewShopFacade(
		usecase.NewAuthUseCase(factory.UsersStub, testhelpers.HasherStub{}, strategy),
		usecase.NewCheckoutUseCase(uow, gateway, logger),
		usecase.NewPaymentUseCase(uow, gateway, logger),
		usecase.NewOrderUseCase(factory.OrdersStub, uow, logger),
		usecase.NewCashboxUseCase(factory.CashboxStub),
		usecase.NewInventoryUseCase(factory.ProductsStub, factory.InventoryStub),
		gateway,
	)
	return facade, factory, gateway
}

func TestShopFacadeAuthFlow(t *testing.T) {
	facade, _, _ := newTestFacade(t)
	ctx := context.Background()

	token, err := facade.Register(ctx, "Ada", "ADA@Example.com", "secret1")
	if err != nil {
		t.Fatalf("register returned unexpected error: %v", err)
	}

	userID, err := facade.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token returned unexpected error: %v", err)
	}

	user, err := facade.Profile(ctx, userID)
	if err != nil {
		t.Fatalf("profile returned unexpected error: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}

	if _, err := facade.Authenticate(ctx, "ada@example.com", "secret1"); err != nil {
		t.Fatalf("authenticate returned unexpected error: %v", err)
	}
}

func TestShopFacadeCashbox(t *testing.T) {
	facade, factory, _ := newTestFacade(t)
	ctx := context.Background()

	if err := facade.CashCredit(ctx, "Opening float", decimal.RequireFromString("100.50")); err != nil {
		t.Fatalf("credit returned unexpected error: %v", err)
	}
	if err := facade.CashDebit(ctx, "Milk run", decimal.RequireFromString("30.00")); err != nil {
		t.Fatalf("debit returned unexpected error: %v", err)
	}

	balance, err := facade.CashBalance(ctx)
	if err != nil {
		t.Fatalf("balance returned unexpected error: %v", err)
	}
	if balance.StringFixed(2) != "70.50" {
		t.Fatalf("expected balance 70.50, got %s", balance.StringFixed(2))
	}

	movements, err := facade.CashMovements(ctx, 10)
	if err != nil {
		t.Fatalf("movements returned unexpected error: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if len(factory.CashboxStub.Movements) != 2 {
		t.Fatalf("expected movements persisted, got %d", len(factory.CashboxStub.Movements))
	}
}

func TestShopFacadeSearchPayments(t *testing.T) {
	facade, _, gateway := newTestFacade(t)
	gateway.SearchFn = func(_ context.Context, reference string) ([]model.Payment, error) {
		if reference != "CB-20260314-0001" {
			t.Fatalf("unexpected reference %q", reference)
		}
		return []model.Payment{{ID: "p-1", Status: model.PaymentStatusApproved}}, nil
	}

	payments, err := facade.SearchPayments(context.Background(), "CB-20260314-0001")
	if err != nil {
		t.Fatalf("search returned unexpected error: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != "p-1" {
		t.Fatalf("unexpected payments %v", payments)
	}
}

func TestShopFacadeAdjustInventory(t *testing.T) {
	facade, factory, _ := newTestFacade(t)
	factory.ProductsStub.ByID[3] = &model.Product{ID: 3, Name: "Blend A", PriceCents: 550}

	stock := int64(12)
	view, err := facade.AdjustInventory(context.Background(), 3, &stock, nil, false)
	if err != nil {
		t.Fatalf("adjust returned unexpected error: %v", err)
	}
	if view.Record.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", view.Record.Stock)
	}
}
