package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// CashboxUseCase manages the append-only cash ledger.
type CashboxUseCase struct {
	cashbox repository.CashboxRepository
}

// NewCashboxUseCase constructs CashboxUseCase.
func NewCashboxUseCase(cashbox repository.CashboxRepository) *CashboxUseCase {
	return &CashboxUseCase{cashbox: cashbox}
}

// Credit appends a money-in row.
func (u *CashboxUseCase) Credit(ctx context.Context, concept string, amount decimal.Decimal) error {
	return u.append(ctx, model.MovementCredit, concept, amount)
}

// Debit appends a money-out row.
func (u *CashboxUseCase) Debit(ctx context.Context, concept string, amount decimal.Decimal) error {
	return u.append(ctx, model.MovementDebit, concept, amount)
}

func (u *CashboxUseCase) append(ctx context.Context, direction model.MovementDirection, concept string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainErrors.ErrInvalidAmount
	}
	return u.cashbox.Append(ctx, &model.CashMovement{
		Direction: direction,
		Concept:   concept,
		Amount:    amount,
	})
}

// Balance returns the signed sum over all ledger rows.
func (u *CashboxUseCase) Balance(ctx context.Context) (decimal.Decimal, error) {
	return u.cashbox.Balance(ctx)
}

// Movements lists the most recent ledger rows.
func (u *CashboxUseCase) Movements(ctx context.Context, limit int) ([]model.CashMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	return u.cashbox.List(ctx, limit)
}
