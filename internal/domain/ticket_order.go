package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketOrderStatus represents the state of an order line
type TicketOrderStatus string

const (
	TicketOrderStatusEnabled     TicketOrderStatus = "enabled"
	TicketOrderStatusDeactivated TicketOrderStatus = "deactivated"
)

// String returns the string representation
func (s TicketOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s TicketOrderStatus) IsValid() bool {
	switch s {
	case TicketOrderStatusEnabled, TicketOrderStatusDeactivated:
		return true
	}
	return false
}

// TicketOrder links one ticket to one order and carries the entry
// scanning state for admission.
type TicketOrder struct {
	ID        string            `json:"id"`
	OrderID   string            `json:"order_id"`
	TicketID  string            `json:"ticket_id"`
	Status    TicketOrderStatus `json:"status"`
	ScannedAt *time.Time        `json:"scanned_at,omitempty"`
	ScannedBy string            `json:"scanned_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewTicketOrder creates an enabled order line
func NewTicketOrder(orderID, ticketID string) *TicketOrder {
	now := time.Now()
	return &TicketOrder{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		TicketID:  ticketID,
		Status:    TicketOrderStatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Deactivate turns the line off
func (to *TicketOrder) Deactivate() error {
	if to.Status == TicketOrderStatusDeactivated {
		return ErrLineDeactivated
	}
	to.Status = TicketOrderStatusDeactivated
	to.UpdatedAt = time.Now()
	return nil
}

// Enable turns the line back on
func (to *TicketOrder) Enable() {
	to.Status = TicketOrderStatusEnabled
	to.UpdatedAt = time.Now()
}

// Scan records an admission scan. A line can be scanned exactly once
// and only while enabled.
func (to *TicketOrder) Scan(scannedBy string, at time.Time) error {
	if to.Status != TicketOrderStatusEnabled {
		return ErrLineDeactivated
	}
	if to.ScannedAt != nil {
		return ErrTicketAlreadyScanned
	}
	to.ScannedAt = &at
	to.ScannedBy = scannedBy
	to.UpdatedAt = at
	return nil
}
