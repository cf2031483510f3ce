package domain

import "time"

// SeatStatus represents the lifecycle state of a seat
type SeatStatus string

const (
	SeatStatusAvailable     SeatStatus = "available"
	SeatStatusBooked        SeatStatus = "booked"
	SeatStatusReserved      SeatStatus = "reserved"
	SeatStatusInTransaction SeatStatus = "in_transaction"
	SeatStatusNotAvailable  SeatStatus = "not_available"
)

// String returns the string representation
func (s SeatStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusBooked, SeatStatusReserved,
		SeatStatusInTransaction, SeatStatusNotAvailable:
		return true
	}
	return false
}

// Seat represents a physical seat in a venue
type Seat struct {
	ID        string     `json:"id"`
	VenueID   string     `json:"venue_id"`
	Label     string     `json:"label"`
	Row       string     `json:"row"`
	Column    int        `json:"column"`
	Status    SeatStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CanHold reports whether a hold may be opened on the seat
func (s *Seat) CanHold() error {
	if s.Status != SeatStatusAvailable {
		return ErrSeatUnavailable
	}
	return nil
}

// SeatStatusUpdate is a single entry of a bulk seat status change
type SeatStatusUpdate struct {
	SeatID string     `json:"seat_id"`
	Status SeatStatus `json:"status"`
}
