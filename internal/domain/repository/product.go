package repository

import (
	"context"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// ProductRepository resolves catalog products.
type ProductRepository interface {
	// FindByName resolves a product by exact case-insensitive name match.
	FindByName(ctx context.Context, name string) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
