package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// PostgresTicketRepository implements TicketRepository backed by PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

var _ TicketRepository = (*PostgresTicketRepository)(nil)

const ticketColumns = `id, event_id, seat_id, category, price, status, created_at, updated_at`

// GetByID returns a ticket by id
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id = $1`, ticketColumns)

	row := db(ctx, r.pool).QueryRow(ctx, query, id)
	ticket, err := scanTicketRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// ListByIDsForUpdate locks the requested tickets of an event in one
// statement. Rows come back ordered by id, the same order every
// competing transaction acquires its locks in.
func (r *PostgresTicketRepository) ListByIDsForUpdate(ctx context.Context, eventID string, ids []string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.tickets.lock")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", eventID),
		attribute.Int("ticket.count", len(ids)),
	)

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	query := fmt.Sprintf(
		`SELECT %s FROM tickets WHERE event_id = $1 AND id = ANY($2) ORDER BY id FOR UPDATE`,
		ticketColumns,
	)

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID, sorted)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, fmt.Errorf("failed to lock tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// UpdateStatus sets the status of a single ticket
func (r *PostgresTicketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	query := `UPDATE tickets SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, query, ticketID, status.String())
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var status string
	var seatID *string

	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&seatID,
		&ticket.Category,
		&ticket.Price,
		&status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if seatID != nil {
		ticket.SeatID = *seatID
	}
	ticket.Status = domain.TicketStatus(status)
	return &ticket, nil
}
