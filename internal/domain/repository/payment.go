package repository

import "context"

// ProcessedPaymentRepository is the idempotency fence for payment
// notifications.
type ProcessedPaymentRepository interface {
	// Register records the payment id with an atomic insert-or-skip.
	// It returns true when the id was seen for the first time.
	Register(ctx context.Context, paymentID string) (bool, error)
}
