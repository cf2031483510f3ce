package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/metrics"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// SeatTransactionService manages seat holds: short-lived pending
// transactions that keep a seat out of the pool while a user checks
// out. Every transition is written to the audit log in the same
// database transaction.
type SeatTransactionService interface {
	CreateHold(ctx context.Context, req *dto.CreateHoldRequest) (*dto.HoldResponse, error)
	GetHold(ctx context.Context, id string) (*dto.HoldResponse, error)
	CompleteHold(ctx context.Context, id string) error
	CancelHold(ctx context.Context, id string) error
	SweepExpiredHolds(ctx context.Context, batchSize int) (int, error)
}

// SeatTransactionServiceConfig holds hold lifecycle settings
type SeatTransactionServiceConfig struct {
	HoldTTL time.Duration
}

type seatTransactionService struct {
	tx        repository.Transactor
	holds     repository.SeatTransactionRepository
	seats     repository.SeatRepository
	audit     repository.SeatTransactionLogRepository
	publisher NotificationPublisher
	holdTTL   time.Duration
}

// NewSeatTransactionService creates a new SeatTransactionService
func NewSeatTransactionService(
	cfg *SeatTransactionServiceConfig,
	tx repository.Transactor,
	holds repository.SeatTransactionRepository,
	seats repository.SeatRepository,
	audit repository.SeatTransactionLogRepository,
	publisher NotificationPublisher,
) SeatTransactionService {
	ttl := 10 * time.Minute
	if cfg != nil && cfg.HoldTTL > 0 {
		ttl = cfg.HoldTTL
	}
	if publisher == nil {
		publisher = NewNoOpNotificationPublisher()
	}
	return &seatTransactionService{
		tx:        tx,
		holds:     holds,
		seats:     seats,
		audit:     audit,
		publisher: publisher,
		holdTTL:   ttl,
	}
}

// CreateHold opens a pending hold on an available seat
func (s *seatTransactionService) CreateHold(ctx context.Context, req *dto.CreateHoldRequest) (*dto.HoldResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.hold.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("seat.id", req.SeatID),
		attribute.String("user.id", req.UserID),
	)

	txn := domain.NewSeatTransaction(req.SeatID, req.UserID, s.holdTTL)
	var seat *domain.Seat

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		seat, err = s.seats.GetByIDForUpdate(txCtx, req.SeatID)
		if err != nil {
			return err
		}
		if err := seat.CanHold(); err != nil {
			return fmt.Errorf("%w: seat %s", err, seat.ID)
		}

		if err := s.seats.UpdateStatus(txCtx, seat.ID, domain.SeatStatusInTransaction); err != nil {
			return err
		}
		seat.Status = domain.SeatStatusInTransaction

		if err := s.holds.Create(txCtx, txn); err != nil {
			return err
		}

		entry := domain.NewSeatTransactionLog(txn, domain.AuditActionHoldCreated, domain.SeatTransactionStatusPending, nil)
		return s.audit.Append(txCtx, entry)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	metrics.RecordHoldCreated(ctx)
	span.SetStatus(codes.Ok, "")

	s.notify(ctx, seat, txn)
	return dto.HoldFromDomain(txn), nil
}

// GetHold returns a hold by id
func (s *seatTransactionService) GetHold(ctx context.Context, id string) (*dto.HoldResponse, error) {
	txn, err := s.holds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.HoldFromDomain(txn), nil
}

// CompleteHold marks a pending hold completed. The seat transition to
// booked belongs to order placement, not the hold.
func (s *seatTransactionService) CompleteHold(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.AuditActionHoldCompleted, func(txn *domain.SeatTransaction) error {
		return txn.Complete()
	}, "")
}

// CancelHold cancels a pending hold and returns the seat to the pool
func (s *seatTransactionService) CancelHold(ctx context.Context, id string) error {
	return s.transition(ctx, id, domain.AuditActionHoldCancelled, func(txn *domain.SeatTransaction) error {
		return txn.Cancel()
	}, domain.SeatStatusAvailable)
}

// transition locks the hold, applies the state change, persists it,
// audits it, and optionally moves the seat
func (s *seatTransactionService) transition(ctx context.Context, id, action string, apply func(*domain.SeatTransaction) error, seatStatus domain.SeatStatus) error {
	var seat *domain.Seat
	var txn *domain.SeatTransaction

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		txn, err = s.holds.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		previous := txn.Status
		if err := apply(txn); err != nil {
			return err
		}
		if err := s.holds.UpdateStatus(txCtx, txn.ID, txn.Status); err != nil {
			return err
		}

		if seatStatus != "" {
			if err := s.seats.UpdateStatus(txCtx, txn.SeatID, seatStatus); err != nil {
				return err
			}
			seat, err = s.seats.GetByID(txCtx, txn.SeatID)
			if err != nil {
				return err
			}
		}

		entry := domain.NewSeatTransactionLog(txn, action, previous, nil)
		return s.audit.Append(txCtx, entry)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, seat, txn)
	return nil
}

// SweepExpiredHolds expires every pending hold past its expiry time in
// one transaction per batch: hold to expired, seat back to available,
// audit entry appended. A second sweep over the same rows finds nothing
// pending and writes nothing.
func (s *seatTransactionService) SweepExpiredHolds(ctx context.Context, batchSize int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.hold.sweep_expired")
	defer span.End()

	var seats []*domain.Seat
	var swept []*domain.SeatTransaction

	start := time.Now()
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		expired, err := s.holds.ListExpiredPendingForUpdate(txCtx, time.Now(), batchSize)
		if err != nil {
			return err
		}

		for _, txn := range expired {
			previous := txn.Status
			if err := txn.Expire(); err != nil {
				return err
			}
			if err := s.holds.UpdateStatus(txCtx, txn.ID, txn.Status); err != nil {
				return err
			}
			if err := s.seats.UpdateStatus(txCtx, txn.SeatID, domain.SeatStatusAvailable); err != nil {
				return err
			}
			seat, err := s.seats.GetByID(txCtx, txn.SeatID)
			if err != nil {
				return err
			}

			entry := domain.NewSeatTransactionLog(txn, domain.AuditActionHoldExpired, previous, map[string]string{
				"swept_at": start.Format(time.RFC3339),
			})
			if err := s.audit.Append(txCtx, entry); err != nil {
				return err
			}

			seats = append(seats, seat)
			swept = append(swept, txn)
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return 0, err
	}

	for i, txn := range swept {
		s.notify(ctx, seats[i], txn)
	}

	metrics.RecordHoldsExpired(ctx, int64(len(swept)))
	metrics.RecordSweepDuration(ctx, time.Since(start))
	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("swept", len(swept)))
	return len(swept), nil
}

// notify publishes hold and seat updates, logging failures
func (s *seatTransactionService) notify(ctx context.Context, seat *domain.Seat, txn *domain.SeatTransaction) {
	if seat == nil {
		return
	}
	publishSeat(ctx, s.publisher, seat)
	if err := s.publisher.PublishTransactionUpdated(ctx, seat.VenueID, txn); err != nil {
		logger.Get().Warn("failed to publish transaction notification",
			zap.String("transaction_id", txn.ID),
			zap.Error(err),
		)
	}
}
