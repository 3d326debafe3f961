package dto

import "time"

// OrderResponse is one row of the buyer's order list.
type OrderResponse struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderItemResponse is one order line in a detail view.
type OrderItemResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Quantity  int32   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderDetailsResponse is an order with its line items.
type OrderDetailsResponse struct {
	ID          int64               `json:"id"`
	OrderNumber string              `json:"order_number"`
	Status      string              `json:"status"`
	Total       float64             `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}
