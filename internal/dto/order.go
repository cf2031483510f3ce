package dto

import (
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	EventID        string   `json:"event_id" binding:"required"`
	VenueCode      string   `json:"venue_code" binding:"required"`
	TicketIDs      []string `json:"ticket_ids" binding:"required"`
	PaymentGateway string   `json:"payment_gateway"`
}

// EditOrderRequest enables and disables order lines by ticket id
type EditOrderRequest struct {
	Enable  []string `json:"enable"`
	Disable []string `json:"disable"`
}

// ScanTicketRequest is the request body for admission scanning
type ScanTicketRequest struct {
	TicketOrderID string `json:"ticket_order_id" binding:"required"`
	ScannedBy     string `json:"scanned_by" binding:"required"`
}

// PaymentCallbackRequest is the gateway webhook payload. Field names
// follow the Midtrans notification format.
type PaymentCallbackRequest struct {
	OrderCode         string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
}

// TicketOrderResponse is one order line in API responses
type TicketOrderResponse struct {
	ID        string     `json:"id"`
	TicketID  string     `json:"ticket_id"`
	Status    string     `json:"status"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
	ScannedBy string     `json:"scanned_by,omitempty"`
}

// TicketOrderFromDomain converts a domain line to its response
func TicketOrderFromDomain(line *domain.TicketOrder) *TicketOrderResponse {
	return &TicketOrderResponse{
		ID:        line.ID,
		TicketID:  line.TicketID,
		Status:    line.Status.String(),
		ScannedAt: line.ScannedAt,
		ScannedBy: line.ScannedBy,
	}
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              string                 `json:"id"`
	OrderCode       string                 `json:"order_code"`
	UserID          string                 `json:"user_id"`
	EventID         string                 `json:"event_id"`
	TotalPrice      float64                `json:"total_price"`
	Status          string                 `json:"status"`
	PaymentGateway  string                 `json:"payment_gateway"`
	PaymentAccessor string                 `json:"payment_accessor,omitempty"`
	ExpiredAt       time.Time              `json:"expired_at"`
	CreatedAt       time.Time              `json:"created_at"`
	Lines           []*TicketOrderResponse `json:"lines,omitempty"`
}

// OrderFromDomain converts a domain order and its lines to a response
func OrderFromDomain(order *domain.Order, lines []*domain.TicketOrder) *OrderResponse {
	resp := &OrderResponse{
		ID:              order.ID,
		OrderCode:       order.OrderCode,
		UserID:          order.UserID,
		EventID:         order.EventID,
		TotalPrice:      order.TotalPrice,
		Status:          order.Status.String(),
		PaymentGateway:  order.PaymentGateway,
		PaymentAccessor: order.PaymentAccessor,
		ExpiredAt:       order.ExpiredAt,
		CreatedAt:       order.CreatedAt,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, TicketOrderFromDomain(line))
	}
	return resp
}
