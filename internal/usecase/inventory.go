package usecase

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// InventoryView pairs a product with its stock record for admin screens.
type InventoryView struct {
	Product *model.Product
	Record  *model.InventoryRecord
}

// InventoryUseCase serves admin stock adjustments.
type InventoryUseCase struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(products repository.ProductRepository, inventory repository.InventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{products: products, inventory: inventory}
}

// Adjust sets or increments stock levels for a product, clamped at zero.
// Nil pointers leave the corresponding level untouched.
func (u *InventoryUseCase) Adjust(ctx context.Context, productID int64, stock, minStock *int64, increment bool) (*InventoryView, error) {
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := u.inventory.Ensure(ctx, productID); err != nil {
		return nil, err
	}

	if increment {
		err = u.inventory.AdjustLevels(ctx, productID, stock, minStock)
	} else {
		err = u.inventory.SetLevels(ctx, productID, stock, minStock)
	}
	if err != nil {
		return nil, err
	}

	record, err := u.inventory.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &InventoryView{Product: product, Record: record}, nil
}
