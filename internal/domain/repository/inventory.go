package repository

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// InventoryRepository manages per-product stock records.
type InventoryRepository interface {
	// Ensure creates a zero-stock record for the product if none exists.
	Ensure(ctx context.Context, productID int64) error
	// Reserve decrements stock by qty, clamped at zero.
	Reserve(ctx context.Context, productID int64, qty int64) error
	// Release increments stock by qty, returning a reservation.
	Release(ctx context.Context, productID int64, qty int64) error
	Get(ctx context.Context, productID int64) (*model.InventoryRecord, error)
	// SetLevels overwrites stock and/or min stock, clamped at zero. Nil
	// pointers leave the corresponding level untouched.
	SetLevels(ctx context.Context, productID int64, stock, minStock *int64) error
	// AdjustLevels adds deltas to stock and/or min stock, clamped at zero.
	AdjustLevels(ctx context.Context, productID int64, stock, minStock *int64) error
}
