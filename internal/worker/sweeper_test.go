package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/gateway"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
)

// MockSweepLocker is a mock implementation of SweepLocker
type MockSweepLocker struct {
	mock.Mock
}

func (m *MockSweepLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSweepLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ repository.SweepLocker = (*MockSweepLocker)(nil)

// MockSeatTransactionService is a mock implementation of SeatTransactionService
type MockSeatTransactionService struct {
	mock.Mock
}

func (m *MockSeatTransactionService) CreateHold(ctx context.Context, req *dto.CreateHoldRequest) (*dto.HoldResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HoldResponse), args.Error(1)
}

func (m *MockSeatTransactionService) GetHold(ctx context.Context, id string) (*dto.HoldResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HoldResponse), args.Error(1)
}

func (m *MockSeatTransactionService) CompleteHold(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSeatTransactionService) CancelHold(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSeatTransactionService) SweepExpiredHolds(ctx context.Context, batchSize int) (int, error) {
	args := m.Called(ctx, batchSize)
	return args.Int(0), args.Error(1)
}

var _ service.SeatTransactionService = (*MockSeatTransactionService)(nil)

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) EditOrder(ctx context.Context, orderID string, req *dto.EditOrderRequest) (*dto.OrderResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) HandlePaymentCallback(ctx context.Context, orderCode string, status gateway.PaymentStatus) error {
	args := m.Called(ctx, orderCode, status)
	return args.Error(0)
}

func (m *MockOrderService) ScanTicket(ctx context.Context, req *dto.ScanTicketRequest) (*dto.TicketOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketOrderResponse), args.Error(1)
}

func (m *MockOrderService) SweepExpiredOrders(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

var _ service.OrderService = (*MockOrderService)(nil)

func TestTransactionSweeper_RunOnce(t *testing.T) {
	t.Run("sweeps under the lock and releases it", func(t *testing.T) {
		ctx := context.Background()
		mockHolds := new(MockSeatTransactionService)
		mockLocker := new(MockSweepLocker)
		cfg := &TransactionSweeperConfig{SweepInterval: time.Minute, BatchSize: 50, LockTTL: 30 * time.Second}

		mockLocker.On("Acquire", ctx, transactionSweepLockKey, 30*time.Second).Return(true, nil)
		mockHolds.On("SweepExpiredHolds", ctx, 50).Return(3, nil)
		mockLocker.On("Release", ctx, transactionSweepLockKey).Return(nil)

		sweeper := NewTransactionSweeper(mockHolds, mockLocker, cfg)
		sweeper.RunOnce(ctx)

		stats := sweeper.GetStats()
		assert.Equal(t, int64(3), stats.TotalSwept)
		assert.Equal(t, 3, stats.LastSweepCount)
		assert.Equal(t, int64(0), stats.SkippedLocked)
		mockHolds.AssertExpectations(t)
		mockLocker.AssertExpectations(t)
	})

	t.Run("skips the run when another replica holds the lock", func(t *testing.T) {
		ctx := context.Background()
		mockHolds := new(MockSeatTransactionService)
		mockLocker := new(MockSweepLocker)

		mockLocker.On("Acquire", ctx, transactionSweepLockKey, mock.Anything).Return(false, nil)

		sweeper := NewTransactionSweeper(mockHolds, mockLocker, nil)
		sweeper.RunOnce(ctx)

		stats := sweeper.GetStats()
		assert.Equal(t, int64(1), stats.SkippedLocked)
		assert.Equal(t, int64(0), stats.TotalSwept)
		mockHolds.AssertNotCalled(t, "SweepExpiredHolds", mock.Anything, mock.Anything)
		mockLocker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("releases the lock when the sweep fails", func(t *testing.T) {
		ctx := context.Background()
		mockHolds := new(MockSeatTransactionService)
		mockLocker := new(MockSweepLocker)

		mockLocker.On("Acquire", ctx, transactionSweepLockKey, mock.Anything).Return(true, nil)
		mockHolds.On("SweepExpiredHolds", ctx, mock.Anything).Return(0, assert.AnError)
		mockLocker.On("Release", ctx, transactionSweepLockKey).Return(nil)

		sweeper := NewTransactionSweeper(mockHolds, mockLocker, nil)
		sweeper.RunOnce(ctx)

		assert.Equal(t, int64(0), sweeper.GetStats().TotalSwept)
		mockLocker.AssertCalled(t, "Release", ctx, transactionSweepLockKey)
	})
}

func TestTransactionSweeper_StartStop(t *testing.T) {
	mockHolds := new(MockSeatTransactionService)
	mockLocker := new(MockSweepLocker)

	mockLocker.On("Acquire", mock.Anything, transactionSweepLockKey, mock.Anything).Return(true, nil)
	mockHolds.On("SweepExpiredHolds", mock.Anything, mock.Anything).Return(0, nil)
	mockLocker.On("Release", mock.Anything, transactionSweepLockKey).Return(nil)

	sweeper := NewTransactionSweeper(mockHolds, mockLocker, &TransactionSweeperConfig{
		SweepInterval: time.Hour,
		BatchSize:     10,
		LockTTL:       time.Second,
	})

	ctx := context.Background()
	assert.NoError(t, sweeper.Start(ctx))
	assert.Error(t, sweeper.Start(ctx), "second start must fail")

	sweeper.Stop()
	sweeper.Stop() // idempotent

	assert.False(t, sweeper.GetStats().IsRunning)
	// The immediate run on start is the only one at an hour interval
	mockHolds.AssertNumberOfCalls(t, "SweepExpiredHolds", 1)
}

func TestOrderSweeper_RunOnce(t *testing.T) {
	t.Run("settles under the lock and releases it", func(t *testing.T) {
		ctx := context.Background()
		mockOrders := new(MockOrderService)
		mockLocker := new(MockSweepLocker)
		cfg := &OrderSweeperConfig{SweepDelay: time.Minute, BatchSize: 25, LockTTL: 30 * time.Second}

		mockLocker.On("Acquire", ctx, orderSweepLockKey, 30*time.Second).Return(true, nil)
		mockOrders.On("SweepExpiredOrders", ctx, 25).Return(2, nil)
		mockLocker.On("Release", ctx, orderSweepLockKey).Return(nil)

		sweeper := NewOrderSweeper(mockOrders, mockLocker, cfg)
		sweeper.RunOnce(ctx)

		stats := sweeper.GetStats()
		assert.Equal(t, int64(2), stats.TotalSettled)
		assert.Equal(t, 2, stats.LastSettleCount)
		mockOrders.AssertExpectations(t)
		mockLocker.AssertExpectations(t)
	})

	t.Run("skips the run when another replica holds the lock", func(t *testing.T) {
		ctx := context.Background()
		mockOrders := new(MockOrderService)
		mockLocker := new(MockSweepLocker)

		mockLocker.On("Acquire", ctx, orderSweepLockKey, mock.Anything).Return(false, nil)

		sweeper := NewOrderSweeper(mockOrders, mockLocker, nil)
		sweeper.RunOnce(ctx)

		assert.Equal(t, int64(1), sweeper.GetStats().SkippedLocked)
		mockOrders.AssertNotCalled(t, "SweepExpiredOrders", mock.Anything, mock.Anything)
	})
}

func TestOrderSweeper_ReschedulesAfterFailure(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockLocker := new(MockSweepLocker)

	mockLocker.On("Acquire", mock.Anything, orderSweepLockKey, mock.Anything).Return(true, nil)
	mockOrders.On("SweepExpiredOrders", mock.Anything, mock.Anything).Return(0, assert.AnError)
	mockLocker.On("Release", mock.Anything, orderSweepLockKey).Return(nil)

	sweeper := NewOrderSweeper(mockOrders, mockLocker, &OrderSweeperConfig{
		SweepDelay: 10 * time.Millisecond,
		BatchSize:  10,
		LockTTL:    time.Second,
	})

	ctx := context.Background()
	assert.NoError(t, sweeper.Start(ctx))
	time.Sleep(60 * time.Millisecond)
	sweeper.Stop()

	// A failing sweep must re-arm the next run like a successful one
	calls := 0
	for _, call := range mockOrders.Calls {
		if call.Method == "SweepExpiredOrders" {
			calls++
		}
	}
	assert.GreaterOrEqual(t, calls, 2)
}
