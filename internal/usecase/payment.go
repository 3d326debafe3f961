package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// PointsPerUnit is how many loyalty points one purchased unit earns.
const PointsPerUnit = 10

// errSkipFinalize aborts the confirmation transaction without treating it
// as a failure. The rollback releases the idempotency fence so a later
// redelivery can still finalize the payment.
var errSkipFinalize = errors.New("skip finalization")

// PaymentUseCase consumes asynchronous payment notifications and finalizes
// orders exactly once per payment.
type PaymentUseCase struct {
	uow     repository.UnitOfWork
	gateway PaymentGateway
	logger  *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(uow repository.UnitOfWork, gateway PaymentGateway, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{uow: uow, gateway: gateway, logger: logger}
}

// Confirm finalizes the order paid by the given external payment id.
// Duplicate deliveries, unknown orders and non-approved payments are
// benign no-ops. The idempotency fence is the first write of the
// transaction, so fence and finalization commit or roll back together.
func (u *PaymentUseCase) Confirm(ctx context.Context, paymentID string) error {
	err := u.uow.Do(ctx, func(r repository.Factory) error {
		first, err := r.ProcessedPayments().Register(ctx, paymentID)
		if err != nil {
			return err
		}
		if !first {
			u.logger.Info("payment already processed", slog.String("payment_id", paymentID))
			return nil
		}

		// Never trust the notification body: fetch the canonical record.
		payment, err := u.gateway.GetPayment(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("fetch payment %s: %w", paymentID, err)
		}
		if payment.Status != model.PaymentStatusApproved {
			u.logger.Info("payment not approved, skipping",
				slog.String("payment_id", paymentID),
				slog.String("status", string(payment.Status)),
			)
			return errSkipFinalize
		}
		if payment.ExternalReference == "" {
			u.logger.Warn("approved payment without order reference", slog.String("payment_id", paymentID))
			return errSkipFinalize
		}

		order, err := r.Orders().GetByNumberForUpdate(ctx, payment.ExternalReference)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				u.logger.Warn("payment references unknown order",
					slog.String("payment_id", paymentID),
					slog.String("order", payment.ExternalReference),
				)
				return errSkipFinalize
			}
			return err
		}

		if order.Status != model.OrderStatusPendingPayment {
			// Already finalized by another payment for the same order.
			// Keep the fence so this payment id stays settled.
			u.logger.Info("order not pending, payment recorded without effects",
				slog.String("payment_id", paymentID),
				slog.String("order", order.Number),
				slog.String("status", string(order.Status)),
			)
			return nil
		}

		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusApproved); err != nil {
			return err
		}

		items, err := r.Orders().ListItems(ctx, order.ID)
		if err != nil {
			return err
		}

		var totalQty int64
		for _, item := range items {
			qty := int64(item.Quantity)
			if qty < 1 {
				qty = 1
			}
			totalQty += qty
		}

		if order.UserID != nil && totalQty > 0 {
			if err := r.Users().AddPoints(ctx, *order.UserID, totalQty*PointsPerUnit); err != nil {
				return err
			}
		}

		total := FromMinorUnits(order.TotalCents)
		if total.IsPositive() {
			movement := &model.CashMovement{
				Direction: model.MovementCredit,
				Concept:   fmt.Sprintf("Sale order #%d", order.ID),
				Amount:    total,
			}
			if err := r.Cashbox().Append(ctx, movement); err != nil {
				return err
			}
		}

		u.logger.Info("payment approved, order finalized",
			slog.String("payment_id", paymentID),
			slog.String("order", order.Number),
			slog.Int64("total_cents", order.TotalCents),
			slog.Int64("units", totalQty),
		)
		return nil
	})
	if errors.Is(err, errSkipFinalize) {
		return nil
	}
	return err
}

// ProcessNotification routes a webhook delivery by its topic. Payment
// notifications confirm directly; merchant order notifications expand to
// one confirmation per approved payment.
func (u *PaymentUseCase) ProcessNotification(ctx context.Context, topic, resourceID string) error {
	if resourceID == "" {
		return nil
	}

	switch strings.ToLower(topic) {
	case "payment":
		return u.Confirm(ctx, resourceID)
	case "merchant_order":
		mo, err := u.gateway.GetMerchantOrder(ctx, resourceID)
		if err != nil {
			return fmt.Errorf("fetch merchant order %s: %w", resourceID, err)
		}
		for _, p := range mo.Payments {
			if p.Status != model.PaymentStatusApproved || p.ID == "" {
				continue
			}
			if err := u.Confirm(ctx, p.ID); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
