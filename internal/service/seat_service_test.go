package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
)

func TestListSeats(t *testing.T) {
	seats := &mockSeatRepository{
		ListByVenueFunc: func(ctx context.Context, venueID string) ([]*domain.Seat, error) {
			return []*domain.Seat{
				{ID: "s1", VenueID: venueID, Label: "A1", Status: domain.SeatStatusAvailable},
				{ID: "s2", VenueID: venueID, Label: "A2", Status: domain.SeatStatusBooked},
			}, nil
		},
	}

	svc := NewSeatService(seats, nil)
	resp, err := svc.ListSeats(context.Background(), "venue-1")
	if err != nil {
		t.Fatalf("ListSeats() error = %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len(resp) = %d, want 2", len(resp))
	}
	if resp[0].Label != "A1" || resp[1].Status != "booked" {
		t.Errorf("unexpected seat map: %+v", resp)
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	var applied []domain.SeatStatusUpdate
	seats := &mockSeatRepository{
		BulkUpdateStatusFunc: func(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error) {
			applied = updates
			out := make([]*domain.Seat, 0, len(updates))
			for _, u := range updates {
				out = append(out, &domain.Seat{ID: u.SeatID, VenueID: "venue-1", Status: u.Status})
			}
			return out, nil
		},
	}

	svc := NewSeatService(seats, nil)
	resp, err := svc.BulkUpdateStatus(context.Background(), &dto.BulkSeatStatusRequest{
		Updates: []dto.SeatStatusUpdateRequest{
			{SeatID: "s1", Status: "not_available"},
			{SeatID: "s2", Status: "available"},
		},
	})
	if err != nil {
		t.Fatalf("BulkUpdateStatus() error = %v", err)
	}
	if len(applied) != 2 || applied[0].Status != domain.SeatStatusNotAvailable {
		t.Errorf("applied updates = %+v", applied)
	}
	if len(resp) != 2 || resp[0].Status != "not_available" {
		t.Errorf("response = %+v", resp)
	}
}

func TestBulkUpdateStatusRejectsUnknownStatus(t *testing.T) {
	seats := &mockSeatRepository{
		BulkUpdateStatusFunc: func(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error) {
			t.Error("repository must not be called for an invalid status")
			return nil, nil
		},
	}

	svc := NewSeatService(seats, nil)
	_, err := svc.BulkUpdateStatus(context.Background(), &dto.BulkSeatStatusRequest{
		Updates: []dto.SeatStatusUpdateRequest{{SeatID: "s1", Status: "vacant"}},
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("BulkUpdateStatus() error = %v, want ErrInvalidStatus", err)
	}
}
