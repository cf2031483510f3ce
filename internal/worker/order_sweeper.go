package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
)

const orderSweepLockKey = "sweep:orders"

// OrderSweeperConfig contains configuration for the order sweeper
type OrderSweeperConfig struct {
	// SweepDelay is the pause between the end of one sweep and the
	// start of the next
	SweepDelay time.Duration
	// BatchSize is the number of orders to settle in each sweep
	BatchSize int
	// LockTTL bounds how long a crashed sweeper keeps the lock
	LockTTL time.Duration
}

// DefaultOrderSweeperConfig returns default configuration
func DefaultOrderSweeperConfig() *OrderSweeperConfig {
	return &OrderSweeperConfig{
		SweepDelay: time.Minute,
		BatchSize:  100,
		LockTTL:    60 * time.Second,
	}
}

// OrderSweeper settles pending orders past their payment deadline.
// Unlike the ticker-driven transaction sweeper it runs on a fixed
// delay: the next run is scheduled only after the previous one
// finishes, whatever its outcome, so exactly one follow-up exists at
// any time and slow gateway calls never stack sweeps.
type OrderSweeper struct {
	orders  service.OrderService
	locker  repository.SweepLocker
	config  *OrderSweeperConfig
	log     *logger.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// Stats
	totalSettled    int64
	skippedLocked   int64
	lastSweepTime   time.Time
	lastSettleCount int
}

// NewOrderSweeper creates a new order sweeper
func NewOrderSweeper(
	orders service.OrderService,
	locker repository.SweepLocker,
	config *OrderSweeperConfig,
) *OrderSweeper {
	if config == nil {
		config = DefaultOrderSweeperConfig()
	}
	if config.SweepDelay <= 0 {
		config.SweepDelay = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 60 * time.Second
	}

	return &OrderSweeper{
		orders: orders,
		locker: locker,
		config: config,
		log:    logger.Get(),
		stopCh: make(chan struct{}),
	}
}

// Start starts the sweeper
func (w *OrderSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("order sweeper already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting order sweeper")

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// Stop stops the sweeper and waits for the current sweep to finish
func (w *OrderSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping order sweeper")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Order sweeper stopped")
}

func (w *OrderSweeper) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		w.RunOnce(ctx)

		// Re-arm after the run completes. A failed run re-arms like a
		// successful one; an error must never kill the schedule.
		timer := time.NewTimer(w.config.SweepDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// RunOnce performs a single sweep under the distributed lock
func (w *OrderSweeper) RunOnce(ctx context.Context) {
	acquired, err := w.locker.Acquire(ctx, orderSweepLockKey, w.config.LockTTL)
	if err != nil {
		w.log.Error(fmt.Sprintf("Failed to acquire sweep lock: %v", err))
		return
	}
	if !acquired {
		w.mu.Lock()
		w.skippedLocked++
		w.mu.Unlock()
		return
	}
	defer func() {
		if err := w.locker.Release(ctx, orderSweepLockKey); err != nil {
			w.log.Warn(fmt.Sprintf("Failed to release sweep lock: %v", err))
		}
	}()

	settled, err := w.orders.SweepExpiredOrders(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error(fmt.Sprintf("Failed to sweep expired orders: %v", err))
		return
	}

	w.mu.Lock()
	w.totalSettled += int64(settled)
	w.lastSweepTime = time.Now()
	w.lastSettleCount = settled
	w.mu.Unlock()

	if settled > 0 {
		w.log.Info(fmt.Sprintf("Settled %d expired orders", settled))
	}
}

// GetStats returns sweeper statistics
func (w *OrderSweeper) GetStats() *OrderSweeperStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &OrderSweeperStats{
		IsRunning:       w.running,
		TotalSettled:    w.totalSettled,
		SkippedLocked:   w.skippedLocked,
		LastSweepTime:   w.lastSweepTime,
		LastSettleCount: w.lastSettleCount,
	}
}

// OrderSweeperStats contains sweeper statistics
type OrderSweeperStats struct {
	IsRunning       bool      `json:"is_running"`
	TotalSettled    int64     `json:"total_settled"`
	SkippedLocked   int64     `json:"skipped_locked"`
	LastSweepTime   time.Time `json:"last_sweep_time"`
	LastSettleCount int       `json:"last_settle_count"`
}
