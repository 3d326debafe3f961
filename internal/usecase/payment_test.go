package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/test"
)

type paymentFixture struct {
	factory *test.FactoryStub
	uow     *test.UnitOfWorkStub
	gateway *test.PaymentGatewayStub
	uc      *PaymentUseCase
	order   *model.Order
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	factory := test.NewFactoryStub()
	userID := int64(1)
	if _, err := factory.UsersStub.Create(context.Background(), "Ada", "ada@example.com", "hash"); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	order := &model.Order{
		Number:        "CB-20260314-0042",
		UserID:        &userID,
		CustomerEmail: "ada@example.com",
		TotalCents:    1100,
		Status:        model.OrderStatusPendingPayment,
	}
	if err := factory.OrdersStub.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	productID := int64(1)
	if err := factory.OrdersStub.AddItems(context.Background(), order.ID, []model.OrderItem{
		{ProductID: &productID, Title: "Blend A", Quantity: 2, UnitPriceCents: 550, SubtotalCents: 1100},
	}); err != nil {
		t.Fatalf("seed items: %v", err)
	}

	gateway := &test.PaymentGatewayStub{
		GetPaymentFn: func(_ context.Context, paymentID string) (*model.Payment, error) {
			return &model.Payment{
				ID:                paymentID,
				Status:            model.PaymentStatusApproved,
				ExternalReference: order.Number,
			}, nil
		},
	}

	uow := test.NewUnitOfWorkStub(factory)
	return &paymentFixture{
		factory: factory,
		uow:     uow,
		gateway: gateway,
		uc:      NewPaymentUseCase(uow, gateway, testLogger()),
		order:   order,
	}
}

func TestConfirmFinalizesOrderExactlyOnce(t *testing.T) {
	f := newPaymentFixture(t)

	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	order, _ := f.factory.OrdersStub.GetByID(context.Background(), f.order.ID)
	if order.Status != model.OrderStatusApproved {
		t.Fatalf("expected approved, got %s", order.Status)
	}

	user, _ := f.factory.UsersStub.GetByID(context.Background(), 1)
	if user.Points != 2*PointsPerUnit {
		t.Fatalf("expected %d points accrued once, got %d", 2*PointsPerUnit, user.Points)
	}

	if got := len(f.factory.CashboxStub.Movements); got != 1 {
		t.Fatalf("expected one ledger credit, got %d", got)
	}
	movement := f.factory.CashboxStub.Movements[0]
	if movement.Direction != model.MovementCredit || movement.Amount.StringFixed(2) != "11.00" {
		t.Fatalf("unexpected ledger movement %+v", movement)
	}

	if f.gateway.PaymentCalls != 1 {
		t.Fatalf("expected duplicate delivery to stop at the fence, got %d fetches", f.gateway.PaymentCalls)
	}
}

func TestConfirmReleasesFenceForPendingPayment(t *testing.T) {
	f := newPaymentFixture(t)
	approved := false
	f.gateway.GetPaymentFn = func(_ context.Context, paymentID string) (*model.Payment, error) {
		status := model.PaymentStatusPending
		if approved {
			status = model.PaymentStatusApproved
		}
		return &model.Payment{ID: paymentID, Status: status, ExternalReference: f.order.Number}, nil
	}

	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("pending confirm: %v", err)
	}
	order, _ := f.factory.OrdersStub.GetByID(context.Background(), f.order.ID)
	if order.Status != model.OrderStatusPendingPayment {
		t.Fatalf("expected order untouched, got %s", order.Status)
	}
	if f.factory.ProcessedStub.Seen["pay-1"] {
		t.Fatalf("expected fence released for non-approved payment")
	}

	// The processor approves later and redelivers the same payment id.
	approved = true
	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("approved confirm: %v", err)
	}
	order, _ = f.factory.OrdersStub.GetByID(context.Background(), f.order.ID)
	if order.Status != model.OrderStatusApproved {
		t.Fatalf("expected redelivery to finalize, got %s", order.Status)
	}
}

func TestConfirmIgnoresUnknownOrderReference(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.GetPaymentFn = func(_ context.Context, paymentID string) (*model.Payment, error) {
		return &model.Payment{ID: paymentID, Status: model.PaymentStatusApproved, ExternalReference: "CB-19700101-0000"}, nil
	}

	if err := f.uc.Confirm(context.Background(), "pay-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.factory.CashboxStub.Movements) != 0 {
		t.Fatalf("expected no ledger writes")
	}
	if f.factory.ProcessedStub.Seen["pay-9"] {
		t.Fatalf("expected fence released for unknown order")
	}
}

func TestConfirmKeepsFenceWhenOrderAlreadyFinalized(t *testing.T) {
	f := newPaymentFixture(t)

	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	// A second, distinct payment settles against the same order.
	if err := f.uc.Confirm(context.Background(), "pay-2"); err != nil {
		t.Fatalf("second payment confirm: %v", err)
	}

	if !f.factory.ProcessedStub.Seen["pay-2"] {
		t.Fatalf("expected second payment id to stay fenced")
	}
	if got := len(f.factory.CashboxStub.Movements); got != 1 {
		t.Fatalf("expected a single ledger credit, got %d", got)
	}
	user, _ := f.factory.UsersStub.GetByID(context.Background(), 1)
	if user.Points != 2*PointsPerUnit {
		t.Fatalf("expected points accrued once, got %d", user.Points)
	}
}

func TestConfirmSkipsPointsForAnonymousOrders(t *testing.T) {
	f := newPaymentFixture(t)
	order, _ := f.factory.OrdersStub.GetByID(context.Background(), f.order.ID)
	f.factory.OrdersStub.ByID[order.ID].UserID = nil

	if err := f.uc.Confirm(context.Background(), "pay-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ := f.factory.UsersStub.GetByID(context.Background(), 1)
	if user.Points != 0 {
		t.Fatalf("expected no points for anonymous order, got %d", user.Points)
	}
	if got := len(f.factory.CashboxStub.Movements); got != 1 {
		t.Fatalf("expected ledger credit regardless of account, got %d", got)
	}
}

func TestConfirmPropagatesProviderError(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.GetPaymentFn = func(context.Context, string) (*model.Payment, error) {
		return nil, errors.New("timeout")
	}

	if err := f.uc.Confirm(context.Background(), "pay-1"); err == nil {
		t.Fatalf("expected error when provider lookup fails")
	}
	if f.factory.ProcessedStub.Seen["pay-1"] {
		t.Fatalf("expected fence released on provider failure")
	}
}

func TestProcessNotificationExpandsMerchantOrder(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.GetMerchantOrderFn = func(_ context.Context, id string) (*model.MerchantOrder, error) {
		return &model.MerchantOrder{
			ID: id,
			Payments: []model.MerchantOrderPayment{
				{ID: "pay-rejected", Status: model.PaymentStatusRejected},
				{ID: "pay-approved", Status: model.PaymentStatusApproved},
			},
		}, nil
	}

	if err := f.uc.ProcessNotification(context.Background(), "merchant_order", "mo-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, _ := f.factory.OrdersStub.GetByID(context.Background(), f.order.ID)
	if order.Status != model.OrderStatusApproved {
		t.Fatalf("expected approved, got %s", order.Status)
	}
	if f.factory.ProcessedStub.Seen["pay-rejected"] {
		t.Fatalf("rejected payment must not reach the fence")
	}
	if got := len(f.factory.CashboxStub.Movements); got != 1 {
		t.Fatalf("expected one ledger credit, got %d", got)
	}
}

func TestProcessNotificationIgnoresUnknownTopics(t *testing.T) {
	f := newPaymentFixture(t)

	if err := f.uc.ProcessNotification(context.Background(), "chargebacks", "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.uc.ProcessNotification(context.Background(), "payment", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.uow.Calls != 0 {
		t.Fatalf("expected no transactions, got %d", f.uow.Calls)
	}
}
