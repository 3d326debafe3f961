package dto

// InventoryAdjustRequest updates stock levels for one product. Mode "inc"
// adds deltas; anything else overwrites.
type InventoryAdjustRequest struct {
	Mode     string `json:"mode"`
	Stock    *int64 `json:"stock"`
	MinStock *int64 `json:"min_stock"`
}

// InventoryResponse is the product's stock view after an adjustment.
type InventoryResponse struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
	MinStock   int64  `json:"min_stock"`
}
