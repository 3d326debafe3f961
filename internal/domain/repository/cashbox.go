package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// CashboxRepository is the append-only cash ledger. Rows are never updated
// or deleted; the balance is derived by summing.
type CashboxRepository interface {
	Append(ctx context.Context, movement *model.CashMovement) error
	Balance(ctx context.Context) (decimal.Decimal, error)
	List(ctx context.Context, limit int) ([]model.CashMovement, error)
}
