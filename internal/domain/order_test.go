package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestOrderStatusIsValid(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusCompleted, true},
		{OrderStatusCancelled, true},
		{OrderStatusExpired, true},
		{OrderStatus("paid"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("OrderStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNewOrder(t *testing.T) {
	order := NewOrder("user-1", "event-1", "midtrans", "rtx", time.Hour)

	if order.ID == "" {
		t.Error("expected order ID to be set")
	}
	if order.Status != OrderStatusPending {
		t.Errorf("expected pending status, got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderCode, "RTX/") {
		t.Errorf("expected venue-prefixed order code, got %s", order.OrderCode)
	}
	if !order.ExpiredAt.After(order.CreatedAt) {
		t.Error("expected payment deadline after creation time")
	}
}

func TestGenerateOrderCodeUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateOrderCode("rtx", now)
		if seen[code] {
			t.Fatalf("duplicate order code generated: %s", code)
		}
		seen[code] = true
	}
}

func TestOrderComplete(t *testing.T) {
	tests := []struct {
		name    string
		status  OrderStatus
		wantErr error
	}{
		{"pending order completes", OrderStatusPending, nil},
		{"completed order rejects", OrderStatusCompleted, ErrOrderAlreadyCompleted},
		{"cancelled order rejects", OrderStatusCancelled, ErrOrderAlreadyCancelled},
		{"expired order rejects", OrderStatusExpired, ErrOrderNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.status}
			err := order.Complete()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && order.Status != OrderStatusCompleted {
				t.Errorf("expected completed status, got %s", order.Status)
			}
		})
	}
}

func TestOrderCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  OrderStatus
		wantErr error
	}{
		{"pending order cancels", OrderStatusPending, nil},
		{"cancelled order rejects", OrderStatusCancelled, ErrOrderAlreadyCancelled},
		{"completed order rejects", OrderStatusCompleted, ErrOrderAlreadyCompleted},
		{"expired order rejects", OrderStatusExpired, ErrOrderNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.status}
			err := order.Cancel()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Cancel() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderIsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"pending past deadline", Order{Status: OrderStatusPending, ExpiredAt: now.Add(-time.Minute)}, true},
		{"pending before deadline", Order{Status: OrderStatusPending, ExpiredAt: now.Add(time.Minute)}, false},
		{"completed past deadline", Order{Status: OrderStatusCompleted, ExpiredAt: now.Add(-time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
