package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewSeatTransaction(t *testing.T) {
	txn := NewSeatTransaction("seat-1", "user-1", 10*time.Minute)

	if txn.Status != SeatTransactionStatusPending {
		t.Errorf("expected pending status, got %s", txn.Status)
	}
	if !txn.ExpiryTime.After(txn.ReservationTime) {
		t.Error("expected expiry after reservation time")
	}
	got := txn.ExpiryTime.Sub(txn.ReservationTime)
	if got != 10*time.Minute {
		t.Errorf("expected 10m TTL, got %s", got)
	}
}

func TestSeatTransactionExpire(t *testing.T) {
	tests := []struct {
		name    string
		status  SeatTransactionStatus
		wantErr error
	}{
		{"pending hold expires", SeatTransactionStatusPending, nil},
		{"expired hold rejects second expire", SeatTransactionStatusExpired, ErrHoldNotPending},
		{"completed hold rejects", SeatTransactionStatusCompleted, ErrHoldNotPending},
		{"cancelled hold rejects", SeatTransactionStatusCancelled, ErrHoldNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &SeatTransaction{Status: tt.status}
			err := txn.Expire()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expire() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && txn.Status != SeatTransactionStatusExpired {
				t.Errorf("expected expired status, got %s", txn.Status)
			}
		})
	}
}

func TestSeatTransactionCompleteAndCancel(t *testing.T) {
	txn := &SeatTransaction{Status: SeatTransactionStatusPending}
	if err := txn.Complete(); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if err := txn.Complete(); !errors.Is(err, ErrHoldAlreadyCompleted) {
		t.Errorf("second Complete() error = %v, want %v", err, ErrHoldAlreadyCompleted)
	}
	if err := txn.Cancel(); !errors.Is(err, ErrHoldAlreadyCompleted) {
		t.Errorf("Cancel() after complete error = %v, want %v", err, ErrHoldAlreadyCompleted)
	}

	txn = &SeatTransaction{Status: SeatTransactionStatusPending}
	if err := txn.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := txn.Cancel(); !errors.Is(err, ErrHoldAlreadyCancelled) {
		t.Errorf("second Cancel() error = %v, want %v", err, ErrHoldAlreadyCancelled)
	}
}

func TestSeatTransactionIsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		txn  SeatTransaction
		want bool
	}{
		{"pending past expiry", SeatTransaction{Status: SeatTransactionStatusPending, ExpiryTime: now.Add(-time.Second)}, true},
		{"pending before expiry", SeatTransaction{Status: SeatTransactionStatusPending, ExpiryTime: now.Add(time.Minute)}, false},
		{"expired already", SeatTransaction{Status: SeatTransactionStatusExpired, ExpiryTime: now.Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.txn.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSeatTransactionLog(t *testing.T) {
	txn := NewSeatTransaction("seat-1", "user-1", time.Minute)
	prev := txn.Status
	if err := txn.Expire(); err != nil {
		t.Fatal(err)
	}

	entry := NewSeatTransactionLog(txn, AuditActionHoldExpired, prev, map[string]string{"swept_by": "worker"})
	if entry.TransactionID != txn.ID {
		t.Errorf("expected transaction id %s, got %s", txn.ID, entry.TransactionID)
	}
	if entry.PreviousStatus != "pending" || entry.NewStatus != "expired" {
		t.Errorf("unexpected transition %s -> %s", entry.PreviousStatus, entry.NewStatus)
	}
}
