package model

import "time"

// Product is the catalog subset the order flow needs for name resolution.
type Product struct {
	ID         int64
	Name       string
	PriceCents int64
	CreatedAt  time.Time
}

// InventoryRecord tracks on-hand stock for one product. Stock never goes
// below zero; decrements clamp instead of failing.
type InventoryRecord struct {
	ProductID int64
	Stock     int64
	MinStock  int64
}
