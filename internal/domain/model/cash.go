package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection marks a cash movement as money in or money out.
type MovementDirection string

const (
	MovementCredit MovementDirection = "credit"
	MovementDebit  MovementDirection = "debit"
)

// CashMovement is one append-only cash ledger row. Amount is in major
// currency units; the running balance is the signed sum over all rows.
type CashMovement struct {
	ID        int64
	Direction MovementDirection
	Concept   string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Signed returns the amount with the direction applied.
func (m CashMovement) Signed() decimal.Decimal {
	if m.Direction == MovementDebit {
		return m.Amount.Neg()
	}
	return m.Amount
}
