package domain

import (
	"time"

	"github.com/google/uuid"
)

// SeatTransactionStatus represents the state of a seat hold
type SeatTransactionStatus string

const (
	SeatTransactionStatusPending   SeatTransactionStatus = "pending"
	SeatTransactionStatusCompleted SeatTransactionStatus = "completed"
	SeatTransactionStatusCancelled SeatTransactionStatus = "cancelled"
	SeatTransactionStatusExpired   SeatTransactionStatus = "expired"
)

// String returns the string representation
func (s SeatTransactionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s SeatTransactionStatus) IsValid() bool {
	switch s {
	case SeatTransactionStatusPending, SeatTransactionStatusCompleted,
		SeatTransactionStatusCancelled, SeatTransactionStatusExpired:
		return true
	}
	return false
}

// SeatTransaction is a short-lived hold a user places on a seat while
// checking out. Only pending holds keep a seat out of the pool.
type SeatTransaction struct {
	ID              string                `json:"id"`
	SeatID          string                `json:"seat_id"`
	UserID          string                `json:"user_id"`
	Status          SeatTransactionStatus `json:"status"`
	ReservationTime time.Time             `json:"reservation_time"`
	ExpiryTime      time.Time             `json:"expiry_time"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewSeatTransaction creates a pending hold expiring at now + ttl
func NewSeatTransaction(seatID, userID string, ttl time.Duration) *SeatTransaction {
	now := time.Now()
	return &SeatTransaction{
		ID:              uuid.New().String(),
		SeatID:          seatID,
		UserID:          userID,
		Status:          SeatTransactionStatusPending,
		ReservationTime: now,
		ExpiryTime:      now.Add(ttl),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsExpired reports whether the hold is past its expiry time
func (st *SeatTransaction) IsExpired(now time.Time) bool {
	return st.Status == SeatTransactionStatusPending && now.After(st.ExpiryTime)
}

// Complete transitions the hold to completed
func (st *SeatTransaction) Complete() error {
	switch st.Status {
	case SeatTransactionStatusPending:
		st.Status = SeatTransactionStatusCompleted
		st.UpdatedAt = time.Now()
		return nil
	case SeatTransactionStatusCompleted:
		return ErrHoldAlreadyCompleted
	case SeatTransactionStatusCancelled:
		return ErrHoldAlreadyCancelled
	default:
		return ErrHoldNotPending
	}
}

// Cancel transitions the hold to cancelled
func (st *SeatTransaction) Cancel() error {
	switch st.Status {
	case SeatTransactionStatusPending:
		st.Status = SeatTransactionStatusCancelled
		st.UpdatedAt = time.Now()
		return nil
	case SeatTransactionStatusCancelled:
		return ErrHoldAlreadyCancelled
	case SeatTransactionStatusCompleted:
		return ErrHoldAlreadyCompleted
	default:
		return ErrHoldNotPending
	}
}

// Expire transitions the hold to expired. Only pending holds expire, so
// sweeping the same hold twice is a no-op at the caller.
func (st *SeatTransaction) Expire() error {
	if st.Status != SeatTransactionStatusPending {
		return ErrHoldNotPending
	}
	st.Status = SeatTransactionStatusExpired
	st.UpdatedAt = time.Now()
	return nil
}
