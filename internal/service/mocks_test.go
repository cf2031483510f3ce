package service

import (
	"context"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
)

// mockTransactor runs the closure directly and records whether it
// returned an error, i.e. whether the real transaction would have
// rolled back.
type mockTransactor struct {
	beginErr   error
	rolledBack bool
}

func (m *mockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(ctx); err != nil {
		m.rolledBack = true
		return err
	}
	return nil
}

var _ repository.Transactor = (*mockTransactor)(nil)

type mockOrderRepository struct {
	CreateFunc             func(ctx context.Context, order *domain.Order) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdateFunc   func(ctx context.Context, id string) (*domain.Order, error)
	GetByCodeFunc          func(ctx context.Context, code string) (*domain.Order, error)
	UpdateStatusFunc       func(ctx context.Context, id string, status domain.OrderStatus) error
	SetPaymentAccessorFunc func(ctx context.Context, id, accessor string) error
	ListExpiredPendingFunc func(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error)
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, order)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDFunc == nil {
		return nil, domain.ErrOrderNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDForUpdateFunc == nil {
		return nil, domain.ErrOrderNotFound
	}
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *mockOrderRepository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	if m.GetByCodeFunc == nil {
		return nil, domain.ErrOrderNotFound
	}
	return m.GetByCodeFunc(ctx, code)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if m.UpdateStatusFunc == nil {
		return nil
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockOrderRepository) SetPaymentAccessor(ctx context.Context, id, accessor string) error {
	if m.SetPaymentAccessorFunc == nil {
		return nil
	}
	return m.SetPaymentAccessorFunc(ctx, id, accessor)
}

func (m *mockOrderRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]*domain.Order, error) {
	if m.ListExpiredPendingFunc == nil {
		return nil, nil
	}
	return m.ListExpiredPendingFunc(ctx, now, limit)
}

var _ repository.OrderRepository = (*mockOrderRepository)(nil)

type mockTicketRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Ticket, error)
	ListByIDsForUpdateFunc func(ctx context.Context, eventID string, ids []string) ([]*domain.Ticket, error)
	UpdateStatusFunc       func(ctx context.Context, ticketID string, status domain.TicketStatus) error
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if m.GetByIDFunc == nil {
		return nil, domain.ErrTicketNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTicketRepository) ListByIDsForUpdate(ctx context.Context, eventID string, ids []string) ([]*domain.Ticket, error) {
	if m.ListByIDsForUpdateFunc == nil {
		return nil, nil
	}
	return m.ListByIDsForUpdateFunc(ctx, eventID, ids)
}

func (m *mockTicketRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	if m.UpdateStatusFunc == nil {
		return nil
	}
	return m.UpdateStatusFunc(ctx, ticketID, status)
}

var _ repository.TicketRepository = (*mockTicketRepository)(nil)

type mockSeatRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Seat, error)
	GetByIDForUpdateFunc func(ctx context.Context, id string) (*domain.Seat, error)
	ListByVenueFunc      func(ctx context.Context, venueID string) ([]*domain.Seat, error)
	UpdateStatusFunc     func(ctx context.Context, seatID string, status domain.SeatStatus) error
	BulkUpdateStatusFunc func(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error)
}

func (m *mockSeatRepository) GetByID(ctx context.Context, id string) (*domain.Seat, error) {
	if m.GetByIDFunc == nil {
		return &domain.Seat{ID: id, VenueID: "venue-1", Status: domain.SeatStatusAvailable}, nil
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockSeatRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Seat, error) {
	if m.GetByIDForUpdateFunc == nil {
		return nil, domain.ErrSeatNotFound
	}
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *mockSeatRepository) ListByVenue(ctx context.Context, venueID string) ([]*domain.Seat, error) {
	if m.ListByVenueFunc == nil {
		return nil, nil
	}
	return m.ListByVenueFunc(ctx, venueID)
}

func (m *mockSeatRepository) UpdateStatus(ctx context.Context, seatID string, status domain.SeatStatus) error {
	if m.UpdateStatusFunc == nil {
		return nil
	}
	return m.UpdateStatusFunc(ctx, seatID, status)
}

func (m *mockSeatRepository) BulkUpdateStatus(ctx context.Context, updates []domain.SeatStatusUpdate) ([]*domain.Seat, error) {
	if m.BulkUpdateStatusFunc == nil {
		return nil, nil
	}
	return m.BulkUpdateStatusFunc(ctx, updates)
}

var _ repository.SeatRepository = (*mockSeatRepository)(nil)

type mockTicketOrderRepository struct {
	CreateFunc              func(ctx context.Context, line *domain.TicketOrder) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.TicketOrder, error)
	GetByIDForUpdateFunc    func(ctx context.Context, id string) (*domain.TicketOrder, error)
	GetByOrderAndTicketFunc func(ctx context.Context, orderID, ticketID string) (*domain.TicketOrder, error)
	ListByOrderFunc         func(ctx context.Context, orderID string) ([]*domain.TicketOrder, error)
	UpdateFunc              func(ctx context.Context, line *domain.TicketOrder) error
}

func (m *mockTicketOrderRepository) Create(ctx context.Context, line *domain.TicketOrder) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, line)
}

func (m *mockTicketOrderRepository) GetByID(ctx context.Context, id string) (*domain.TicketOrder, error) {
	if m.GetByIDFunc == nil {
		return nil, domain.ErrTicketOrderNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTicketOrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.TicketOrder, error) {
	if m.GetByIDForUpdateFunc == nil {
		return nil, domain.ErrTicketOrderNotFound
	}
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *mockTicketOrderRepository) GetByOrderAndTicket(ctx context.Context, orderID, ticketID string) (*domain.TicketOrder, error) {
	if m.GetByOrderAndTicketFunc == nil {
		return nil, domain.ErrTicketOrderNotFound
	}
	return m.GetByOrderAndTicketFunc(ctx, orderID, ticketID)
}

func (m *mockTicketOrderRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.TicketOrder, error) {
	if m.ListByOrderFunc == nil {
		return nil, nil
	}
	return m.ListByOrderFunc(ctx, orderID)
}

func (m *mockTicketOrderRepository) Update(ctx context.Context, line *domain.TicketOrder) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, line)
}

var _ repository.TicketOrderRepository = (*mockTicketOrderRepository)(nil)

type mockSeatTransactionRepository struct {
	CreateFunc                      func(ctx context.Context, txn *domain.SeatTransaction) error
	GetByIDFunc                     func(ctx context.Context, id string) (*domain.SeatTransaction, error)
	GetByIDForUpdateFunc            func(ctx context.Context, id string) (*domain.SeatTransaction, error)
	ListExpiredPendingForUpdateFunc func(ctx context.Context, now time.Time, limit int) ([]*domain.SeatTransaction, error)
	UpdateStatusFunc                func(ctx context.Context, id string, status domain.SeatTransactionStatus) error
}

func (m *mockSeatTransactionRepository) Create(ctx context.Context, txn *domain.SeatTransaction) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, txn)
}

func (m *mockSeatTransactionRepository) GetByID(ctx context.Context, id string) (*domain.SeatTransaction, error) {
	if m.GetByIDFunc == nil {
		return nil, domain.ErrHoldNotFound
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *mockSeatTransactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.SeatTransaction, error) {
	if m.GetByIDForUpdateFunc == nil {
		return nil, domain.ErrHoldNotFound
	}
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *mockSeatTransactionRepository) ListExpiredPendingForUpdate(ctx context.Context, now time.Time, limit int) ([]*domain.SeatTransaction, error) {
	if m.ListExpiredPendingForUpdateFunc == nil {
		return nil, nil
	}
	return m.ListExpiredPendingForUpdateFunc(ctx, now, limit)
}

func (m *mockSeatTransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.SeatTransactionStatus) error {
	if m.UpdateStatusFunc == nil {
		return nil
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

var _ repository.SeatTransactionRepository = (*mockSeatTransactionRepository)(nil)

type mockAuditRepository struct {
	entries []*domain.SeatTransactionLog
	err     error
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *domain.SeatTransactionLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.SeatTransactionLog, error) {
	var out []*domain.SeatTransactionLog
	for _, e := range m.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.SeatTransactionLogRepository = (*mockAuditRepository)(nil)
