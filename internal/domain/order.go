package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPending
}

// Order is a purchase of one or more tickets. TotalPrice is a snapshot
// of the per-ticket prices summed at lock time and never recomputed.
type Order struct {
	ID              string      `json:"id"`
	OrderCode       string      `json:"order_code"`
	UserID          string      `json:"user_id"`
	EventID         string      `json:"event_id"`
	TotalPrice      float64     `json:"total_price"`
	Status          OrderStatus `json:"status"`
	PaymentGateway  string      `json:"payment_gateway"`
	PaymentAccessor string      `json:"payment_accessor,omitempty"`
	ExpiredAt       time.Time   `json:"expired_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewOrder creates a pending order with a payment deadline of now + ttl
func NewOrder(userID, eventID, gateway, venueCode string, ttl time.Duration) *Order {
	now := time.Now()
	return &Order{
		ID:             uuid.New().String(),
		OrderCode:      GenerateOrderCode(venueCode, now),
		UserID:         userID,
		EventID:        eventID,
		Status:         OrderStatusPending,
		PaymentGateway: gateway,
		ExpiredAt:      now.Add(ttl),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GenerateOrderCode builds a venue-scoped, human-readable order code.
// Uniqueness is enforced by the database; the random suffix keeps
// collisions within the same second vanishingly rare.
func GenerateOrderCode(venueCode string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s/%s/%s", strings.ToUpper(venueCode), at.Format("20060102"), suffix)
}

// CanComplete reports whether the order may transition to completed
func (o *Order) CanComplete() error {
	switch o.Status {
	case OrderStatusPending:
		return nil
	case OrderStatusCompleted:
		return ErrOrderAlreadyCompleted
	case OrderStatusCancelled:
		return ErrOrderAlreadyCancelled
	default:
		return ErrOrderNotPending
	}
}

// Complete transitions the order to completed
func (o *Order) Complete() error {
	if err := o.CanComplete(); err != nil {
		return err
	}
	o.Status = OrderStatusCompleted
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel transitions the order to cancelled
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderStatusPending:
		o.Status = OrderStatusCancelled
		o.UpdatedAt = time.Now()
		return nil
	case OrderStatusCancelled:
		return ErrOrderAlreadyCancelled
	case OrderStatusCompleted:
		return ErrOrderAlreadyCompleted
	default:
		return ErrOrderNotPending
	}
}

// Expire transitions the order to expired
func (o *Order) Expire() error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotPending
	}
	o.Status = OrderStatusExpired
	o.UpdatedAt = time.Now()
	return nil
}

// IsExpired reports whether the payment deadline has passed
func (o *Order) IsExpired(now time.Time) bool {
	return o.Status == OrderStatusPending && now.After(o.ExpiredAt)
}
