package dto

import (
	"encoding/json"
	"strings"
)

// RawPrice accepts a JSON number or a free-text price string and keeps the
// raw token for lenient coercion downstream.
type RawPrice string

// UnmarshalJSON keeps the token as-is, dropping surrounding quotes.
func (p *RawPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	*p = RawPrice(s)
	return nil
}

// CheckoutCustomer is the buyer contact block of a checkout request.
type CheckoutCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutShipping is the shipping block of a checkout request.
type CheckoutShipping struct {
	Address1 string `json:"address1"`
}

// CheckoutItem is one raw cart line.
type CheckoutItem struct {
	Title     string   `json:"title"`
	Quantity  float64  `json:"quantity"`
	UnitPrice RawPrice `json:"unit_price"`
}

// CheckoutRequest is the POST /api/orders/checkout payload.
type CheckoutRequest struct {
	Customer CheckoutCustomer `json:"customer"`
	Shipping CheckoutShipping `json:"shipping"`
	Items    []CheckoutItem   `json:"items" binding:"required"`
}

// CheckoutResponse is returned after a successful checkout.
type CheckoutResponse struct {
	OrderNumber  string  `json:"order_number"`
	OrderID      int64   `json:"order_id"`
	PreferenceID string  `json:"preference_id"`
	Total        float64 `json:"total"`
}
