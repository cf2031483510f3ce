package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// SeatService exposes the seat map and admin status updates
type SeatService interface {
	GetSeat(ctx context.Context, id string) (*dto.SeatResponse, error)
	ListSeats(ctx context.Context, venueID string) ([]*dto.SeatResponse, error)
	BulkUpdateStatus(ctx context.Context, req *dto.BulkSeatStatusRequest) ([]*dto.SeatResponse, error)
}

type seatService struct {
	seats     repository.SeatRepository
	publisher NotificationPublisher
}

// NewSeatService creates a new SeatService
func NewSeatService(seats repository.SeatRepository, publisher NotificationPublisher) SeatService {
	if publisher == nil {
		publisher = NewNoOpNotificationPublisher()
	}
	return &seatService{seats: seats, publisher: publisher}
}

// GetSeat returns a single seat
func (s *seatService) GetSeat(ctx context.Context, id string) (*dto.SeatResponse, error) {
	seat, err := s.seats.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.SeatFromDomain(seat), nil
}

// ListSeats returns the seat map of a venue
func (s *seatService) ListSeats(ctx context.Context, venueID string) ([]*dto.SeatResponse, error) {
	seats, err := s.seats.ListByVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return dto.SeatsFromDomain(seats), nil
}

// BulkUpdateStatus applies a batch of status changes atomically. An
// invalid status or unknown seat fails the whole batch.
func (s *seatService) BulkUpdateStatus(ctx context.Context, req *dto.BulkSeatStatusRequest) ([]*dto.SeatResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.seat.bulk_update")
	defer span.End()
	span.SetAttributes(attribute.Int("update.count", len(req.Updates)))

	updates := make([]domain.SeatStatusUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		status := domain.SeatStatus(u.Status)
		if !status.IsValid() {
			err := fmt.Errorf("%w: %s", domain.ErrInvalidStatus, u.Status)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		updates = append(updates, domain.SeatStatusUpdate{SeatID: u.SeatID, Status: status})
	}

	seats, err := s.seats.BulkUpdateStatus(ctx, updates)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	for _, seat := range seats {
		publishSeat(ctx, s.publisher, seat)
	}

	span.SetStatus(codes.Ok, "")
	return dto.SeatsFromDomain(seats), nil
}
