package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Inventory() InventoryRepository
	Cashbox() CashboxRepository
	ProcessedPayments() ProcessedPaymentRepository
}

// UnitOfWork runs fn against a transaction-scoped repository set. All
// repository calls made through the passed factory share one database
// transaction; fn returning an error rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Factory) error) error
}
