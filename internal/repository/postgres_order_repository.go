package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// PostgresOrderRepository implements OrderRepository backed by PostgreSQL
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

var _ OrderRepository = (*PostgresOrderRepository)(nil)

const orderColumns = `id, order_code, user_id, event_id, total_price, status, payment_gateway, payment_accessor, expired_at, created_at, updated_at`

// Create inserts a new order
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, order_code, user_id, event_id, total_price, status,
			payment_gateway, payment_accessor, expired_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := db(ctx, r.pool).Exec(ctx, query,
		order.ID,
		order.OrderCode,
		order.UserID,
		order.EventID,
		order.TotalPrice,
		order.Status.String(),
		order.PaymentGateway,
		nullString(order.PaymentAccessor),
		order.ExpiredAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrderCode
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID returns an order by id
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate returns an order by id with a row lock
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)
	return r.getOne(ctx, query, id)
}

// GetByCode returns an order by its order code
func (r *PostgresOrderRepository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_code = $1`, orderColumns)
	return r.getOne(ctx, query, code)
}

func (r *PostgresOrderRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	row := db(ctx, r.pool).QueryRow(ctx, query, args...)
	order, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateStatus sets the status of an order
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, query, id, status.String())
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetPaymentAccessor stores the gateway accessor handed out at charge time
func (r *PostgresOrderRepository) SetPaymentAccessor(ctx context.Context, id, accessor string) error {
	query := `UPDATE orders SET payment_accessor = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, query, id, accessor)
	if err != nil {
		return fmt.Errorf("failed to set payment accessor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ListExpiredPending returns pending orders past their payment deadline,
// oldest first
func (r *PostgresOrderRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = 'pending' AND expired_at <= $1
		ORDER BY expired_at
		LIMIT $2
	`, orderColumns)

	rows, err := db(ctx, r.pool).Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrderRow(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var status string
	var accessor *string

	err := row.Scan(
		&order.ID,
		&order.OrderCode,
		&order.UserID,
		&order.EventID,
		&order.TotalPrice,
		&status,
		&order.PaymentGateway,
		&accessor,
		&order.ExpiredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accessor != nil {
		order.PaymentAccessor = *accessor
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

// nullString converts empty strings to NULL
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
