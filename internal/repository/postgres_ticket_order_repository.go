package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// PostgresTicketOrderRepository implements TicketOrderRepository
type PostgresTicketOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketOrderRepository creates a new PostgresTicketOrderRepository
func NewPostgresTicketOrderRepository(pool *pgxpool.Pool) *PostgresTicketOrderRepository {
	return &PostgresTicketOrderRepository{pool: pool}
}

var _ TicketOrderRepository = (*PostgresTicketOrderRepository)(nil)

const ticketOrderColumns = `id, order_id, ticket_id, status, scanned_at, scanned_by, created_at, updated_at`

// Create inserts a new order line
func (r *PostgresTicketOrderRepository) Create(ctx context.Context, line *domain.TicketOrder) error {
	query := `
		INSERT INTO ticket_orders (
			id, order_id, ticket_id, status, scanned_at, scanned_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db(ctx, r.pool).Exec(ctx, query,
		line.ID,
		line.OrderID,
		line.TicketID,
		line.Status.String(),
		line.ScannedAt,
		nullString(line.ScannedBy),
		line.CreatedAt,
		line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket order: %w", err)
	}
	return nil
}

// GetByID returns an order line by id
func (r *PostgresTicketOrderRepository) GetByID(ctx context.Context, id string) (*domain.TicketOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_orders WHERE id = $1`, ticketOrderColumns)
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate returns an order line by id with a row lock
func (r *PostgresTicketOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.TicketOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_orders WHERE id = $1 FOR UPDATE`, ticketOrderColumns)
	return r.getOne(ctx, query, id)
}

// GetByOrderAndTicket returns the line joining an order and a ticket
func (r *PostgresTicketOrderRepository) GetByOrderAndTicket(ctx context.Context, orderID, ticketID string) (*domain.TicketOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_orders WHERE order_id = $1 AND ticket_id = $2`, ticketOrderColumns)
	return r.getOne(ctx, query, orderID, ticketID)
}

func (r *PostgresTicketOrderRepository) getOne(ctx context.Context, query string, args ...any) (*domain.TicketOrder, error) {
	row := db(ctx, r.pool).QueryRow(ctx, query, args...)
	line, err := scanTicketOrderRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketOrderNotFound
		}
		return nil, fmt.Errorf("failed to get ticket order: %w", err)
	}
	return line, nil
}

// ListByOrder returns every line of an order
func (r *PostgresTicketOrderRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.TicketOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_orders WHERE order_id = $1 ORDER BY created_at`, ticketOrderColumns)

	rows, err := db(ctx, r.pool).Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket orders: %w", err)
	}
	defer rows.Close()

	var lines []*domain.TicketOrder
	for rows.Next() {
		line, err := scanTicketOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket order: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Update persists status and scan fields of a line
func (r *PostgresTicketOrderRepository) Update(ctx context.Context, line *domain.TicketOrder) error {
	query := `
		UPDATE ticket_orders SET
			status = $2,
			scanned_at = $3,
			scanned_by = $4,
			updated_at = $5
		WHERE id = $1
	`

	tag, err := db(ctx, r.pool).Exec(ctx, query,
		line.ID,
		line.Status.String(),
		line.ScannedAt,
		nullString(line.ScannedBy),
		line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketOrderNotFound
	}
	return nil
}

func scanTicketOrderRow(row pgx.Row) (*domain.TicketOrder, error) {
	var line domain.TicketOrder
	var status string
	var scannedBy *string

	err := row.Scan(
		&line.ID,
		&line.OrderID,
		&line.TicketID,
		&status,
		&line.ScannedAt,
		&scannedBy,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scannedBy != nil {
		line.ScannedBy = *scannedBy
	}
	line.Status = domain.TicketOrderStatus(status)
	return &line, nil
}
