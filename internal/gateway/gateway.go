package gateway

import (
	"context"
	"fmt"
	"time"
)

// PaymentStatus is the settlement state a gateway reports for an order
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "PAID"
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
)

// ChargeRequest asks the gateway to open a payment for an order
type ChargeRequest struct {
	OrderCode   string
	Amount      float64
	Currency    string
	CustomerID  string
	Description string
}

// ChargeResponse carries the accessor the client uses to pay: a snap
// token, redirect URL, or equivalent handle depending on the provider.
type ChargeResponse struct {
	Accessor    string
	RedirectURL string
}

// PaymentGateway is the port to an external payment provider
type PaymentGateway interface {
	// Charge opens a payment and returns the accessor for the client
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)

	// CheckStatus reports whether the order has been paid
	CheckStatus(ctx context.Context, orderCode string) (PaymentStatus, error)

	// Name returns the provider name
	Name() string
}

// Config selects and configures a gateway implementation
type Config struct {
	Provider  string
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

// New creates a gateway for the configured provider
func New(cfg *Config) (PaymentGateway, error) {
	switch cfg.Provider {
	case "midtrans":
		return NewMidtransGateway(cfg.BaseURL, cfg.ServerKey, cfg.Timeout), nil
	case "mock", "":
		return NewMockGateway(), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway provider: %s", cfg.Provider)
	}
}
