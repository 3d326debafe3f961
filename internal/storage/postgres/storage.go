package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/coffeebeans/shop/internal/domain/errors"
	"github.com/coffeebeans/shop/internal/domain/model"
	"github.com/coffeebeans/shop/internal/domain/repository"
)

// querier is the subset of pgx operations shared by pools and transactions.
// Repositories run against it so the same implementations serve both
// autocommit calls and unit-of-work transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL. It implements
// both repository.Factory (autocommit access) and repository.UnitOfWork.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for autocommit repository access.
func (s *Storage) Users() repository.UserRepository { return &userRepository{q: s.pool} }
func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{q: s.pool}
}
func (s *Storage) Orders() repository.OrderRepository { return &orderRepository{q: s.pool} }
func (s *Storage) Inventory() repository.InventoryRepository {
	return &inventoryRepository{q: s.pool}
}
func (s *Storage) Cashbox() repository.CashboxRepository { return &cashboxRepository{q: s.pool} }
func (s *Storage) ProcessedPayments() repository.ProcessedPaymentRepository {
	return &processedPaymentRepository{q: s.pool}
}

// txFactory exposes the same repositories bound to one transaction.
type txFactory struct {
	q querier
}

func (f *txFactory) Users() repository.UserRepository         { return &userRepository{q: f.q} }
func (f *txFactory) Products() repository.ProductRepository   { return &productRepository{q: f.q} }
func (f *txFactory) Orders() repository.OrderRepository       { return &orderRepository{q: f.q} }
func (f *txFactory) Inventory() repository.InventoryRepository {
	return &inventoryRepository{q: f.q}
}
func (f *txFactory) Cashbox() repository.CashboxRepository { return &cashboxRepository{q: f.q} }
func (f *txFactory) ProcessedPayments() repository.ProcessedPaymentRepository {
	return &processedPaymentRepository{q: f.q}
}

// Do runs fn against transaction-scoped repositories. An error from fn
// rolls the whole transaction back.
func (s *Storage) Do(ctx context.Context, fn func(repository.Factory) error) error {
	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&txFactory{q: tx})
	})
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            points BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            price_cents BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS inventory (
            product_id BIGINT PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
            stock BIGINT NOT NULL DEFAULT 0,
            min_stock BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_number TEXT UNIQUE NOT NULL,
            user_id BIGINT REFERENCES users(id),
            customer_name TEXT NOT NULL DEFAULT '',
            customer_email TEXT NOT NULL DEFAULT '',
            shipping_address TEXT NOT NULL DEFAULT '',
            total_cents BIGINT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT REFERENCES products(id),
            title TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price_cents BIGINT NOT NULL,
            subtotal_cents BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS processed_payments (
            payment_id TEXT PRIMARY KEY,
            processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cashbox_movements (
            id SERIAL PRIMARY KEY,
            direction TEXT NOT NULL,
            concept TEXT NOT NULL,
            amount NUMERIC(14,2) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- UserRepository implementation ---

type userRepository struct {
	q querier
}

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)
                   RETURNING id, role, points, created_at`
	u := model.User{Name: name, Email: email, PasswordHash: passwordHash}
	err := r.q.QueryRow(ctx, query, name, email, passwordHash).Scan(&u.ID, &u.Role, &u.Points, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, points, created_at
                   FROM users WHERE email=$1`
	return r.scanUser(r.q.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, email, password_hash, role, points, created_at
                   FROM users WHERE id=$1`
	return r.scanUser(r.q.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) AddPoints(ctx context.Context, userID int64, points int64) error {
	const query = `UPDATE users SET points = GREATEST(points + $2, 0) WHERE id=$1`
	_, err := r.q.Exec(ctx, query, userID, points)
	return err
}

// --- ProductRepository implementation ---

type productRepository struct {
	q querier
}

func (r *productRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	const query = `SELECT id, name, price_cents, created_at FROM products
                   WHERE lower(name) = lower($1) LIMIT 1`
	return r.scanProduct(r.q.QueryRow(ctx, query, name))
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, price_cents, created_at FROM products WHERE id=$1`
	return r.scanProduct(r.q.QueryRow(ctx, query, id))
}

func (r *productRepository) scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// --- OrderRepository implementation ---

type orderRepository struct {
	q querier
}

const orderColumns = `id, order_number, user_id, customer_name, customer_email,
                      shipping_address, total_cents, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (order_number, user_id, customer_name, customer_email,
                                       shipping_address, total_cents, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		order.Number, order.UserID, order.CustomerName, order.CustomerEmail,
		order.ShippingAddress, order.TotalCents, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) AddItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	const query = `INSERT INTO order_items (order_id, product_id, title, quantity, unit_price_cents, subtotal_cents)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range items {
		if _, err := r.q.Exec(ctx, query,
			orderID, item.ProductID, item.Title, item.Quantity, item.UnitPriceCents, item.SubtotalCents,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return r.scanOrder(r.q.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number=$1`
	return r.scanOrder(r.q.QueryRow(ctx, query, number))
}

func (r *orderRepository) GetByNumberForUpdate(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number=$1 FOR UPDATE`
	return r.scanOrder(r.q.QueryRow(ctx, query, number))
}

func (r *orderRepository) scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.CustomerName, &o.CustomerEmail,
		&o.ShippingAddress, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

func (r *orderRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status=$1 AND created_at < $2
              ORDER BY created_at
              LIMIT $3`
	rows, err := r.q.Query(ctx, query, model.OrderStatusPendingPayment, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

func (r *orderRepository) collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.UserID, &o.CustomerName, &o.CustomerEmail,
			&o.ShippingAddress, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, title, quantity, unit_price_cents, subtotal_cents
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title,
			&it.Quantity, &it.UnitPriceCents, &it.SubtotalCents); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.q.Exec(ctx, query, status, orderID)
	return err
}

// --- InventoryRepository implementation ---

type inventoryRepository struct {
	q querier
}

func (r *inventoryRepository) Ensure(ctx context.Context, productID int64) error {
	const query = `INSERT INTO inventory (product_id, stock, min_stock)
                   VALUES ($1, 0, 0)
                   ON CONFLICT (product_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, productID)
	return err
}

func (r *inventoryRepository) Reserve(ctx context.Context, productID int64, qty int64) error {
	const query = `UPDATE inventory SET stock = GREATEST(stock - $2, 0) WHERE product_id=$1`
	_, err := r.q.Exec(ctx, query, productID, qty)
	return err
}

func (r *inventoryRepository) Release(ctx context.Context, productID int64, qty int64) error {
	const query = `UPDATE inventory SET stock = stock + $2 WHERE product_id=$1`
	_, err := r.q.Exec(ctx, query, productID, qty)
	return err
}

func (r *inventoryRepository) Get(ctx context.Context, productID int64) (*model.InventoryRecord, error) {
	const query = `SELECT product_id, stock, min_stock FROM inventory WHERE product_id=$1`
	var rec model.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID).Scan(&rec.ProductID, &rec.Stock, &rec.MinStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *inventoryRepository) SetLevels(ctx context.Context, productID int64, stock, minStock *int64) error {
	if stock != nil {
		const query = `UPDATE inventory SET stock = GREATEST($2, 0) WHERE product_id=$1`
		if _, err := r.q.Exec(ctx, query, productID, *stock); err != nil {
			return err
		}
	}
	if minStock != nil {
		const query = `UPDATE inventory SET min_stock = GREATEST($2, 0) WHERE product_id=$1`
		if _, err := r.q.Exec(ctx, query, productID, *minStock); err != nil {
			return err
		}
	}
	return nil
}

func (r *inventoryRepository) AdjustLevels(ctx context.Context, productID int64, stock, minStock *int64) error {
	if stock != nil {
		const query = `UPDATE inventory SET stock = GREATEST(stock + $2, 0) WHERE product_id=$1`
		if _, err := r.q.Exec(ctx, query, productID, *stock); err != nil {
			return err
		}
	}
	if minStock != nil {
		const query = `UPDATE inventory SET min_stock = GREATEST(min_stock + $2, 0) WHERE product_id=$1`
		if _, err := r.q.Exec(ctx, query, productID, *minStock); err != nil {
			return err
		}
	}
	return nil
}

// --- CashboxRepository implementation ---

type cashboxRepository struct {
	q querier
}

func (r *cashboxRepository) Append(ctx context.Context, movement *model.CashMovement) error {
	const query = `INSERT INTO cashbox_movements (direction, concept, amount)
                   VALUES ($1, $2, $3)
                   RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		movement.Direction, movement.Concept, movement.Amount.String(),
	).Scan(&movement.ID, &movement.CreatedAt)
}

func (r *cashboxRepository) Balance(ctx context.Context) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(
                       CASE WHEN direction = 'credit' THEN amount ELSE -amount END
                   ), 0)::text
                   FROM cashbox_movements`
	var raw string
	if err := r.q.QueryRow(ctx, query).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func (r *cashboxRepository) List(ctx context.Context, limit int) ([]model.CashMovement, error) {
	const query = `SELECT id, direction, concept, amount::text, created_at
                   FROM cashbox_movements ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CashMovement
	for rows.Next() {
		var (
			m   model.CashMovement
			raw string
		)
		if err := rows.Scan(&m.ID, &m.Direction, &m.Concept, &raw, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Amount, err = decimal.NewFromString(raw); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ProcessedPaymentRepository implementation ---

type processedPaymentRepository struct {
	q querier
}

func (r *processedPaymentRepository) Register(ctx context.Context, paymentID string) (bool, error) {
	const query = `INSERT INTO processed_payments (payment_id) VALUES ($1)
                   ON CONFLICT (payment_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, paymentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
