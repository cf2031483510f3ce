package repository

import (
	"context"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
)

// Transactor runs a function inside a database transaction carried in
// the context. All repository calls made with the inner context join
// the same transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeatRepository manages venue seats
type SeatRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Seat, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Seat, error)
	ListByVenue(ctx context.Context, venueID string) ([]*domain.Seat, error)
	UpdateStatus(ctx context.Context, seatID string, status domain.SeatStatus) error
	BulkUpdateStatus(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error)
}

// TicketRepository manages event tickets
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// ListByIDsForUpdate locks the given tickets of an event in a single
	// statement, ordered by id so competing requests acquire locks in
	// the same order.
	ListByIDsForUpdate(ctx context.Context, eventID string, ids []string) ([]*domain.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
}

// OrderRepository manages orders
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetPaymentAccessor(ctx context.Context, id, accessor string) error
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error)
}

// TicketOrderRepository manages order lines
type TicketOrderRepository interface {
	Create(ctx context.Context, line *domain.TicketOrder) error
	GetByID(ctx context.Context, id string) (*domain.TicketOrder, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.TicketOrder, error)
	GetByOrderAndTicket(ctx context.Context, orderID, ticketID string) (*domain.TicketOrder, error)
	ListByOrder(ctx context.Context, orderID string) ([]*domain.TicketOrder, error)
	Update(ctx context.Context, line *domain.TicketOrder) error
}

// SeatTransactionRepository manages seat holds
type SeatTransactionRepository interface {
	Create(ctx context.Context, txn *domain.SeatTransaction) error
	GetByID(ctx context.Context, id string) (*domain.SeatTransaction, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.SeatTransaction, error)
	// ListExpiredPendingForUpdate locks expired pending holds for the
	// sweep, skipping rows another transaction already holds.
	ListExpiredPendingForUpdate(ctx context.Context, now time.Time, limit int) ([]*domain.SeatTransaction, error)
	UpdateStatus(ctx context.Context, id string, status domain.SeatTransactionStatus) error
}

// SeatTransactionLogRepository appends audit entries. Insert-only.
type SeatTransactionLogRepository interface {
	Append(ctx context.Context, entry *domain.SeatTransactionLog) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.SeatTransactionLog, error)
}

// SweepLocker is a distributed lock guarding sweeps so only one process
// sweeps a resource at a time.
type SweepLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
