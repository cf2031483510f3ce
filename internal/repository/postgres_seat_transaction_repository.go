package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// PostgresSeatTransactionRepository implements SeatTransactionRepository
type PostgresSeatTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSeatTransactionRepository creates a new PostgresSeatTransactionRepository
func NewPostgresSeatTransactionRepository(pool *pgxpool.Pool) *PostgresSeatTransactionRepository {
	return &PostgresSeatTransactionRepository{pool: pool}
}

var _ SeatTransactionRepository = (*PostgresSeatTransactionRepository)(nil)

const seatTransactionColumns = `id, seat_id, user_id, status, reservation_time, expiry_time, created_at, updated_at`

// Create inserts a new hold
func (r *PostgresSeatTransactionRepository) Create(ctx context.Context, txn *domain.SeatTransaction) error {
	query := `
		INSERT INTO seat_transactions (
			id, seat_id, user_id, status, reservation_time, expiry_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db(ctx, r.pool).Exec(ctx, query,
		txn.ID,
		txn.SeatID,
		txn.UserID,
		txn.Status.String(),
		txn.ReservationTime,
		txn.ExpiryTime,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create seat transaction: %w", err)
	}
	return nil
}

// GetByID returns a hold by id
func (r *PostgresSeatTransactionRepository) GetByID(ctx context.Context, id string) (*domain.SeatTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM seat_transactions WHERE id = $1`, seatTransactionColumns)
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate returns a hold by id with a row lock
func (r *PostgresSeatTransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.SeatTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM seat_transactions WHERE id = $1 FOR UPDATE`, seatTransactionColumns)
	return r.getOne(ctx, query, id)
}

func (r *PostgresSeatTransactionRepository) getOne(ctx context.Context, query string, args ...any) (*domain.SeatTransaction, error) {
	row := db(ctx, r.pool).QueryRow(ctx, query, args...)
	txn, err := scanSeatTransactionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to get seat transaction: %w", err)
	}
	return txn, nil
}

// ListExpiredPendingForUpdate locks expired pending holds for a sweep.
// SKIP LOCKED keeps concurrent sweeps from stalling on each other.
func (r *PostgresSeatTransactionRepository) ListExpiredPendingForUpdate(ctx context.Context, now time.Time, limit int) ([]*domain.SeatTransaction, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.seat_transactions.list_expired")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit))

	query := fmt.Sprintf(`
		SELECT %s FROM seat_transactions
		WHERE status = 'pending' AND expiry_time <= $1
		ORDER BY expiry_time
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, seatTransactionColumns)

	rows, err := db(ctx, r.pool).Query(ctx, query, now, limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list expired holds: %w", err)
	}
	defer rows.Close()

	var txns []*domain.SeatTransaction
	for rows.Next() {
		txn, err := scanSeatTransactionRow(rows)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan seat transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("found", len(txns)))
	return txns, nil
}

// UpdateStatus sets the status of a hold
func (r *PostgresSeatTransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.SeatTransactionStatus) error {
	query := `UPDATE seat_transactions SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, query, id, status.String())
	if err != nil {
		return fmt.Errorf("failed to update seat transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHoldNotFound
	}
	return nil
}

func scanSeatTransactionRow(row pgx.Row) (*domain.SeatTransaction, error) {
	var txn domain.SeatTransaction
	var status string

	err := row.Scan(
		&txn.ID,
		&txn.SeatID,
		&txn.UserID,
		&status,
		&txn.ReservationTime,
		&txn.ExpiryTime,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Status = domain.SeatTransactionStatus(status)
	return &txn, nil
}
