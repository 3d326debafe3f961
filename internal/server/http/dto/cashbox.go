package dto

import "time"

// CashMovementRequest creates one manual ledger entry.
type CashMovementRequest struct {
	Concept string  `json:"concept" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
}

// CashMovementResponse is one ledger row.
type CashMovementResponse struct {
	ID        int64     `json:"id"`
	Direction string    `json:"direction"`
	Concept   string    `json:"concept"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// CashBalanceResponse carries the running ledger balance.
type CashBalanceResponse struct {
	Balance string `json:"balance"`
}
