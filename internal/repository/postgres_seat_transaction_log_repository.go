package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// PostgresSeatTransactionLogRepository implements SeatTransactionLogRepository.
// The table is insert-only; entries join whatever transaction is carried
// in the context so the audit commits with the transition it records.
type PostgresSeatTransactionLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSeatTransactionLogRepository creates a new PostgresSeatTransactionLogRepository
func NewPostgresSeatTransactionLogRepository(pool *pgxpool.Pool) *PostgresSeatTransactionLogRepository {
	return &PostgresSeatTransactionLogRepository{pool: pool}
}

var _ SeatTransactionLogRepository = (*PostgresSeatTransactionLogRepository)(nil)

// Append inserts an audit entry
func (r *PostgresSeatTransactionLogRepository) Append(ctx context.Context, entry *domain.SeatTransactionLog) error {
	query := `
		INSERT INTO seat_transaction_logs (
			id, transaction_id, seat_id, user_id, action,
			previous_status, new_status, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := db(ctx, r.pool).Exec(ctx, query,
		entry.ID,
		entry.TransactionID,
		entry.SeatID,
		entry.UserID,
		entry.Action,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append seat transaction log: %w", err)
	}
	return nil
}

// ListByTransaction returns the audit trail of one hold, oldest first
func (r *PostgresSeatTransactionLogRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.SeatTransactionLog, error) {
	query := `
		SELECT id, transaction_id, seat_id, user_id, action,
		       previous_status, new_status, metadata, created_at
		FROM seat_transaction_logs
		WHERE transaction_id = $1
		ORDER BY created_at
	`

	rows, err := db(ctx, r.pool).Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat transaction logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.SeatTransactionLog
	for rows.Next() {
		entry, err := scanSeatTransactionLogRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seat transaction log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanSeatTransactionLogRow(row pgx.Row) (*domain.SeatTransactionLog, error) {
	var entry domain.SeatTransactionLog

	err := row.Scan(
		&entry.ID,
		&entry.TransactionID,
		&entry.SeatID,
		&entry.UserID,
		&entry.Action,
		&entry.PreviousStatus,
		&entry.NewStatus,
		&entry.Metadata,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
