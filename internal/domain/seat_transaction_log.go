package domain

import (
	"time"

	"github.com/google/uuid"
)

// SeatTransactionLog is an append-only audit record of a hold
// transition. Rows are never updated or deleted.
type SeatTransactionLog struct {
	ID             string            `json:"id"`
	TransactionID  string            `json:"transaction_id"`
	SeatID         string            `json:"seat_id"`
	UserID         string            `json:"user_id"`
	Action         string            `json:"action"`
	PreviousStatus string            `json:"previous_status"`
	NewStatus      string            `json:"new_status"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Audit actions
const (
	AuditActionHoldCreated   = "hold_created"
	AuditActionHoldCompleted = "hold_completed"
	AuditActionHoldCancelled = "hold_cancelled"
	AuditActionHoldExpired   = "hold_expired"
)

// NewSeatTransactionLog creates an audit entry for a hold transition
func NewSeatTransactionLog(txn *SeatTransaction, action string, previous SeatTransactionStatus, metadata map[string]string) *SeatTransactionLog {
	return &SeatTransactionLog{
		ID:             uuid.New().String(),
		TransactionID:  txn.ID,
		SeatID:         txn.SeatID,
		UserID:         txn.UserID,
		Action:         action,
		PreviousStatus: previous.String(),
		NewStatus:      txn.Status.String(),
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
}
