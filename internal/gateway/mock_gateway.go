package gateway

import (
	"context"
	"fmt"
	"sync"
)

// MockGateway is an in-memory gateway for development and tests. Orders
// charged through it are unpaid until MarkPaid is called.
type MockGateway struct {
	mu   sync.Mutex
	paid map[string]bool

	// ChargeErr and StatusErr force failures when set
	ChargeErr error
	StatusErr error
}

// NewMockGateway creates a new MockGateway
func NewMockGateway() *MockGateway {
	return &MockGateway{paid: make(map[string]bool)}
}

var _ PaymentGateway = (*MockGateway)(nil)

// Name returns the provider name
func (g *MockGateway) Name() string {
	return "mock"
}

// Charge returns a deterministic fake accessor
func (g *MockGateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	if g.ChargeErr != nil {
		return nil, g.ChargeErr
	}
	return &ChargeResponse{
		Accessor:    fmt.Sprintf("mock-token-%s", req.OrderCode),
		RedirectURL: fmt.Sprintf("https://pay.example.test/%s", req.OrderCode),
	}, nil
}

// CheckStatus reports PAID only for orders marked via MarkPaid
func (g *MockGateway) CheckStatus(ctx context.Context, orderCode string) (PaymentStatus, error) {
	if g.StatusErr != nil {
		return "", g.StatusErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paid[orderCode] {
		return PaymentStatusPaid, nil
	}
	return PaymentStatusUnpaid, nil
}

// MarkPaid records an order as settled
func (g *MockGateway) MarkPaid(orderCode string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paid[orderCode] = true
}
