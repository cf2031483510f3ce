package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTicketOrderScan(t *testing.T) {
	now := time.Now()

	t.Run("enabled unscanned line scans", func(t *testing.T) {
		to := NewTicketOrder("order-1", "ticket-1")
		if err := to.Scan("gate-a", now); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if to.ScannedAt == nil || to.ScannedBy != "gate-a" {
			t.Error("expected scan to be recorded")
		}
	})

	t.Run("second scan rejects", func(t *testing.T) {
		to := NewTicketOrder("order-1", "ticket-1")
		if err := to.Scan("gate-a", now); err != nil {
			t.Fatal(err)
		}
		if err := to.Scan("gate-b", now); !errors.Is(err, ErrTicketAlreadyScanned) {
			t.Errorf("Scan() error = %v, want %v", err, ErrTicketAlreadyScanned)
		}
	})

	t.Run("deactivated line rejects", func(t *testing.T) {
		to := NewTicketOrder("order-1", "ticket-1")
		if err := to.Deactivate(); err != nil {
			t.Fatal(err)
		}
		if err := to.Scan("gate-a", now); !errors.Is(err, ErrLineDeactivated) {
			t.Errorf("Scan() error = %v, want %v", err, ErrLineDeactivated)
		}
	})
}

func TestTicketOrderDeactivate(t *testing.T) {
	to := NewTicketOrder("order-1", "ticket-1")
	if err := to.Deactivate(); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if err := to.Deactivate(); !errors.Is(err, ErrLineDeactivated) {
		t.Errorf("second Deactivate() error = %v, want %v", err, ErrLineDeactivated)
	}

	to.Enable()
	if to.Status != TicketOrderStatusEnabled {
		t.Errorf("expected enabled status, got %s", to.Status)
	}
}
