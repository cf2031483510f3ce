package domain

import "time"

// TicketStatus represents the sale state of a ticket
type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "available"
	TicketStatusBooked    TicketStatus = "booked"
	TicketStatusReserved  TicketStatus = "reserved"
)

// String returns the string representation
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusAvailable, TicketStatusBooked, TicketStatusReserved:
		return true
	}
	return false
}

// Ticket is a sellable unit for an event. SeatID is empty for
// free-standing (unseated) tickets.
type Ticket struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	SeatID    string       `json:"seat_id,omitempty"`
	Category  string       `json:"category"`
	Price     float64      `json:"price"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CanPurchase reports whether the ticket can enter a new order
func (t *Ticket) CanPurchase() error {
	if t.Status != TicketStatusAvailable {
		return ErrTicketUnavailable
	}
	return nil
}
