package test

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Create registers user unless the email is taken or the stub has an
// explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{ID: s.Next, Name: name, Email: email, PasswordHash: passwordHash, Role: "customer"}
	s.Next++
	s.ByEmail[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AddPoints credits loyalty points, clamping the balance at zero.
func (s *UserRepositoryStub) AddPoints(ctx context.Context, userID, points int64) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[userID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Points += points
	if user.Points < 0 {
		user.Points = 0
	}
	return nil
}

func (s *UserRepositoryStub) clone() *UserRepositoryStub {
	out := &UserRepositoryStub{
		ByEmail: make(map[string]*model.User, len(s.ByEmail)),
		ByID:    make(map[int64]*model.User, len(s.ByID)),
		Next:    s.Next,
		Err:     s.Err,
	}
	for _, u := range s.ByID {
		copied := *u
		out.ByID[copied.ID] = &copied
		out.ByEmail[copied.Email] = &copied
	}
	return out
}

// ProductRepositoryStub resolves catalog products from an in-memory map.
type ProductRepositoryStub struct {
	ByID map[int64]*model.Product
	Err  error
}

// NewProductRepositoryStub constructs stub repository with initialized maps.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{ByID: make(map[int64]*model.Product)}
	for _, p := range products {
		copied := p
		s.ByID[copied.ID] = &copied
	}
	return s
}

// FindByName resolves a product by case-insensitive name.
func (s *ProductRepositoryStub) FindByName(ctx context.Context, name string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.ByID {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.ByID[id]; ok {
		return p, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProductRepositoryStub) clone() *ProductRepositoryStub {
	out := &ProductRepositoryStub{ByID: make(map[int64]*model.Product, len(s.ByID)), Err: s.Err}
	for id, p := range s.ByID {
		copied := *p
		out.ByID[id] = &copied
	}
	return out
}

// OrderRepositoryStub stores orders and their items in-memory.
type OrderRepositoryStub struct {
	ByID     map[int64]*model.Order
	Items    map[int64][]model.OrderItem
	Next     int64
	NextItem int64
	Err      error
	// CreateErrs is consumed one error per Create call, simulating
	// transient conflicts.
	CreateErrs []error
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		ByID:     make(map[int64]*model.Order),
		Items:    make(map[int64][]model.OrderItem),
		Next:     1,
		NextItem: 1,
	}
}

// Create inserts the order, filling identifier and timestamps.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.Err != nil {
		return s.Err
	}
	if len(s.CreateErrs) > 0 {
		err := s.CreateErrs[0]
		s.CreateErrs = s.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range s.ByID {
		if existing.Number == order.Number {
			return domainErrors.ErrAlreadyExists
		}
	}
	order.ID = s.Next
	s.Next++
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	s.ByID[order.ID] = &copied
	return nil
}

// AddItems appends line items for the order.
func (s *OrderRepositoryStub) AddItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if s.Err != nil {
		return s.Err
	}
	for _, item := range items {
		item.ID = s.NextItem
		s.NextItem++
		item.OrderID = orderID
		s.Items[orderID] = append(s.Items[orderID], item)
	}
	return nil
}

// GetByID fetches an order or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if order, ok := s.ByID[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByNumber fetches an order by its external number.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, order := range s.ByID {
		if order.Number == number {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByNumberForUpdate behaves like GetByNumber; the stub has no locking.
func (s *OrderRepositoryStub) GetByNumberForUpdate(ctx context.Context, number string) (*model.Order, error) {
	return s.GetByNumber(ctx, number)
}

// ListByUser returns the user's orders.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Order
	for _, order := range s.ByID {
		if order.UserID != nil && *order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

// ListItems returns the order's line items.
func (s *OrderRepositoryStub) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.OrderItem(nil), s.Items[orderID]...), nil
}

// UpdateStatus transitions the order status.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	if s.Err != nil {
		return s.Err
	}
	order, ok := s.ByID[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

// ListStalePending returns pending orders created before the given instant.
func (s *OrderRepositoryStub) ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Order
	for _, order := range s.ByID {
		if order.Status == model.OrderStatusPendingPayment && order.CreatedAt.Before(before) {
			out = append(out, *order)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *OrderRepositoryStub) clone() *OrderRepositoryStub {
	out := &OrderRepositoryStub{
		ByID:       make(map[int64]*model.Order, len(s.ByID)),
		Items:      make(map[int64][]model.OrderItem, len(s.Items)),
		Next:       s.Next,
		NextItem:   s.NextItem,
		Err:        s.Err,
		CreateErrs: append([]error(nil), s.CreateErrs...),
	}
	for id, order := range s.ByID {
		copied := *order
		out.ByID[id] = &copied
	}
	for id, items := range s.Items {
		out.Items[id] = append([]model.OrderItem(nil), items...)
	}
	return out
}

// InventoryRepositoryStub tracks stock records in-memory with the same
// clamping rules as the SQL implementation.
type InventoryRepositoryStub struct {
	Records map[int64]*model.InventoryRecord
	Err     error
}

// NewInventoryRepositoryStub constructs stub repository with initialized maps.
func NewInventoryRepositoryStub() *InventoryRepositoryStub {
	return &InventoryRepositoryStub{Records: make(map[int64]*model.InventoryRecord)}
}

// Ensure creates a zero-stock record when none exists.
func (s *InventoryRepositoryStub) Ensure(ctx context.Context, productID int64) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Records[productID]; !ok {
		s.Records[productID] = &model.InventoryRecord{ProductID: productID}
	}
	return nil
}

// Reserve decrements stock, clamped at zero.
func (s *InventoryRepositoryStub) Reserve(ctx context.Context, productID, qty int64) error {
	if s.Err != nil {
		return s.Err
	}
	record, ok := s.Records[productID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	record.Stock -= qty
	if record.Stock < 0 {
		record.Stock = 0
	}
	return nil
}

// Release increments stock.
func (s *InventoryRepositoryStub) Release(ctx context.Context, productID, qty int64) error {
	if s.Err != nil {
		return s.Err
	}
	record, ok := s.Records[productID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	record.Stock += qty
	return nil
}

// Get returns the stock record for a product.
func (s *InventoryRepositoryStub) Get(ctx context.Context, productID int64) (*model.InventoryRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if record, ok := s.Records[productID]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetLevels overwrites levels, clamped at zero.
func (s *InventoryRepositoryStub) SetLevels(ctx context.Context, productID int64, stock, minStock *int64) error {
	if s.Err != nil {
		return s.Err
	}
	record, ok := s.Records[productID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if stock != nil {
		record.Stock = clampZero(*stock)
	}
	if minStock != nil {
		record.MinStock = clampZero(*minStock)
	}
	return nil
}

// AdjustLevels adds deltas to levels, clamped at zero.
func (s *InventoryRepositoryStub) AdjustLevels(ctx context.Context, productID int64, stock, minStock *int64) error {
	if s.Err != nil {
		return s.Err
	}
	record, ok := s.Records[productID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if stock != nil {
		record.Stock = clampZero(record.Stock + *stock)
	}
	if minStock != nil {
		record.MinStock = clampZero(record.MinStock + *minStock)
	}
	return nil
}

func clampZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func (s *InventoryRepositoryStub) clone() *InventoryRepositoryStub {
	out := &InventoryRepositoryStub{Records: make(map[int64]*model.InventoryRecord, len(s.Records)), Err: s.Err}
	for id, record := range s.Records {
		copied := *record
		out.Records[id] = &copied
	}
	return out
}

// CashboxRepositoryStub is an in-memory append-only ledger.
type CashboxRepositoryStub struct {
	Movements []model.CashMovement
	Next      int64
	Err       error
}

// NewCashboxRepositoryStub constructs the ledger stub.
func NewCashboxRepositoryStub() *CashboxRepositoryStub {
	return &CashboxRepositoryStub{Next: 1}
}

// Append records a movement, filling identifier and timestamp.
func (s *CashboxRepositoryStub) Append(ctx context.Context, movement *model.CashMovement) error {
	if s.Err != nil {
		return s.Err
	}
	movement.ID = s.Next
	s.Next++
	movement.CreatedAt = time.Now()
	s.Movements = append(s.Movements, *movement)
	return nil
}

// Balance returns the signed sum over all rows.
func (s *CashboxRepositoryStub) Balance(ctx context.Context) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	sum := decimal.Zero
	for _, m := range s.Movements {
		sum = sum.Add(m.Signed())
	}
	return sum, nil
}

// List returns the most recent rows, newest first.
func (s *CashboxRepositoryStub) List(ctx context.Context, limit int) ([]model.CashMovement, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := append([]model.CashMovement(nil), s.Movements...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *CashboxRepositoryStub) clone() *CashboxRepositoryStub {
	return &CashboxRepositoryStub{
		Movements: append([]model.CashMovement(nil), s.Movements...),
		Next:      s.Next,
		Err:       s.Err,
	}
}

// ProcessedPaymentRepositoryStub is an in-memory idempotency fence.
type ProcessedPaymentRepositoryStub struct {
	Seen map[string]bool
	Err  error
}

// NewProcessedPaymentRepositoryStub constructs the fence stub.
func NewProcessedPaymentRepositoryStub() *ProcessedPaymentRepositoryStub {
	return &ProcessedPaymentRepositoryStub{Seen: make(map[string]bool)}
}

// Register records the payment id, reporting first-time registration.
func (s *ProcessedPaymentRepositoryStub) Register(ctx context.Context, paymentID string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	if s.Seen[paymentID] {
		return false, nil
	}
	s.Seen[paymentID] = true
	return true, nil
}

func (s *ProcessedPaymentRepositoryStub) clone() *ProcessedPaymentRepositoryStub {
	out := &ProcessedPaymentRepositoryStub{Seen: make(map[string]bool, len(s.Seen)), Err: s.Err}
	for id := range s.Seen {
		out.Seen[id] = true
	}
	return out
}

// FactoryStub aggregates the in-memory repositories behind the repository
// factory contract.
type FactoryStub struct {
	UsersStub     *UserRepositoryStub
	ProductsStub  *ProductRepositoryStub
	OrdersStub    *OrderRepositoryStub
	InventoryStub *InventoryRepositoryStub
	CashboxStub   *CashboxRepositoryStub
	ProcessedStub *ProcessedPaymentRepositoryStub
}

// NewFactoryStub constructs a factory with empty repositories.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		UsersStub:     NewUserRepositoryStub(),
		ProductsStub:  NewProductRepositoryStub(),
		OrdersStub:    NewOrderRepositoryStub(),
		InventoryStub: NewInventoryRepositoryStub(),
		CashboxStub:   NewCashboxRepositoryStub(),
		ProcessedStub: NewProcessedPaymentRepositoryStub(),
	}
}

func (f *FactoryStub) Users() repository.UserRepository                 { return f.UsersStub }
func (f *FactoryStub) Products() repository.ProductRepository           { return f.ProductsStub }
func (f *FactoryStub) Orders() repository.OrderRepository               { return f.OrdersStub }
func (f *FactoryStub) Inventory() repository.InventoryRepository        { return f.InventoryStub }
func (f *FactoryStub) Cashbox() repository.CashboxRepository            { return f.CashboxStub }
func (f *FactoryStub) ProcessedPayments() repository.ProcessedPaymentRepository {
	return f.ProcessedStub
}

func (f *FactoryStub) clone() *FactoryStub {
	return &FactoryStub{
		UsersStub:     f.UsersStub.clone(),
		ProductsStub:  f.ProductsStub.clone(),
		OrdersStub:    f.OrdersStub.clone(),
		InventoryStub: f.InventoryStub.clone(),
		CashboxStub:   f.CashboxStub.clone(),
		ProcessedStub: f.ProcessedStub.clone(),
	}
}

// UnitOfWorkStub runs transactions against the factory with rollback
// semantics: a returned error restores the pre-transaction state.
type UnitOfWorkStub struct {
	Factory *FactoryStub
	Calls   int
	Err     error
}

// NewUnitOfWorkStub wraps a factory stub in transactional semantics.
func NewUnitOfWorkStub(factory *FactoryStub) *UnitOfWorkStub {
	return &UnitOfWorkStub{Factory: factory}
}

// Do executes fn, rolling repository state back when fn fails.
func (s *UnitOfWorkStub) Do(ctx context.Context, fn func(repository.Factory) error) error {
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	snapshot := s.Factory.clone()
	if err := fn(s.Factory); err != nil {
		*s.Factory = *snapshot
		return err
	}
	return nil
}

var (
	_ repository.Factory    = (*FactoryStub)(nil)
	_ repository.UnitOfWork = (*UnitOfWorkStub)(nil)
)
