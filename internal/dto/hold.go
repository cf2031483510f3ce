package dto

import (
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// CreateHoldRequest is the request body for opening a seat hold
type CreateHoldRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// HoldResponse is a seat hold in API responses
type HoldResponse struct {
	ID              string    `json:"id"`
	SeatID          string    `json:"seat_id"`
	UserID          string    `json:"user_id"`
	Status          string    `json:"status"`
	ReservationTime time.Time `json:"reservation_time"`
	ExpiryTime      time.Time `json:"expiry_time"`
}

// HoldFromDomain converts a domain hold to its response
func HoldFromDomain(txn *domain.SeatTransaction) *HoldResponse {
	return &HoldResponse{
		ID:              txn.ID,
		SeatID:          txn.SeatID,
		UserID:          txn.UserID,
		Status:          txn.Status.String(),
		ReservationTime: txn.ReservationTime,
		ExpiryTime:      txn.ExpiryTime,
	}
}
