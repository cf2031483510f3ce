package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// PostgresSeatRepository implements SeatRepository backed by PostgreSQL
type PostgresSeatRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSeatRepository creates a new PostgresSeatRepository
func NewPostgresSeatRepository(pool *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{pool: pool}
}

var _ SeatRepository = (*PostgresSeatRepository)(nil)

const seatColumns = `id, venue_id, label, "row", "column", status, created_at, updated_at`

// GetByID returns a seat by id
func (r *PostgresSeatRepository) GetByID(ctx context.Context, id string) (*domain.Seat, error) {
	query := fmt.Sprintf(`SELECT %s FROM seats WHERE id = $1`, seatColumns)
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate returns a seat by id with a row lock held for the
// duration of the surrounding transaction
func (r *PostgresSeatRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Seat, error) {
	query := fmt.Sprintf(`SELECT %s FROM seats WHERE id = $1 FOR UPDATE`, seatColumns)
	return r.getOne(ctx, query, id)
}

func (r *PostgresSeatRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Seat, error) {
	row := db(ctx, r.pool).QueryRow(ctx, query, args...)
	seat, err := scanSeatRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

// ListByVenue returns every seat of a venue ordered by row and column
func (r *PostgresSeatRepository) ListByVenue(ctx context.Context, venueID string) ([]*domain.Seat, error) {
	query := fmt.Sprintf(`SELECT %s FROM seats WHERE venue_id = $1 ORDER BY "row", "column"`, seatColumns)

	rows, err := db(ctx, r.pool).Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	defer rows.Close()

	var seats []*domain.Seat
	for rows.Next() {
		seat, err := scanSeatRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// UpdateStatus sets the status of a single seat
func (r *PostgresSeatRepository) UpdateStatus(ctx context.Context, seatID string, status domain.SeatStatus) error {
	query := `UPDATE seats SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, query, seatID, status.String())
	if err != nil {
		return fmt.Errorf("failed to update seat status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSeatNotFound
	}
	return nil
}

// BulkUpdateStatus applies a set of status changes atomically and
// returns the updated seats. Any unknown seat aborts the whole batch.
func (r *PostgresSeatRepository) BulkUpdateStatus(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error) {
	tx := txFromContext(ctx)
	if tx == nil {
		begun, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer begun.Rollback(ctx)

		ctx = context.WithValue(ctx, txKey{}, begun)
		seats, err := r.bulkUpdateStatus(ctx, updates)
		if err != nil {
			return nil, err
		}
		if err := begun.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return seats, nil
	}
	return r.bulkUpdateStatus(ctx, updates)
}

func (r *PostgresSeatRepository) bulkUpdateStatus(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error) {
	query := fmt.Sprintf(`UPDATE seats SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING %s`, seatColumns)

	seats := make([]*domain.Seat, 0, len(updates))
	for _, u := range updates {
		row := db(ctx, r.pool).QueryRow(ctx, query, u.SeatID, u.Status.String())
		seat, err := scanSeatRow(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", domain.ErrSeatNotFound, u.SeatID)
			}
			return nil, fmt.Errorf("failed to update seat %s: %w", u.SeatID, err)
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

func scanSeatRow(row pgx.Row) (*domain.Seat, error) {
	var seat domain.Seat
	var status string

	err := row.Scan(
		&seat.ID,
		&seat.VenueID,
		&seat.Label,
		&seat.Row,
		&seat.Column,
		&status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	seat.Status = domain.SeatStatus(status)
	return &seat, nil
}
