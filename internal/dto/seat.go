package dto

import (
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// SeatResponse is a seat in API responses
type SeatResponse struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	Label     string    `json:"label"`
	Row       string    `json:"row"`
	Column    int       `json:"column"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeatFromDomain converts a domain seat to its response
func SeatFromDomain(seat *domain.Seat) *SeatResponse {
	return &SeatResponse{
		ID:        seat.ID,
		VenueID:   seat.VenueID,
		Label:     seat.Label,
		Row:       seat.Row,
		Column:    seat.Column,
		Status:    seat.Status.String(),
		UpdatedAt: seat.UpdatedAt,
	}
}

// SeatsFromDomain converts a slice of seats
func SeatsFromDomain(seats []*domain.Seat) []*SeatResponse {
	out := make([]*SeatResponse, 0, len(seats))
	for _, seat := range seats {
		out = append(out, SeatFromDomain(seat))
	}
	return out
}

// SeatStatusUpdateRequest is one entry of a bulk status change
type SeatStatusUpdateRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// BulkSeatStatusRequest is the request body for bulk seat updates
type BulkSeatStatusRequest struct {
	Updates []SeatStatusUpdateRequest `json:"updates" binding:"required,min=1"`
}
