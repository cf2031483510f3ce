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

const transactionSweepLockKey = "sweep:seat-transactions"

// TransactionSweeperConfig contains configuration for the seat
// transaction sweeper
type TransactionSweeperConfig struct {
	// SweepInterval is the interval between expiry scans
	SweepInterval time.Duration
	// BatchSize is the number of holds to expire in each scan
	BatchSize int
	// LockTTL bounds how long a crashed sweeper keeps the lock
	LockTTL time.Duration
}

// DefaultTransactionSweeperConfig returns default configuration
func DefaultTransactionSweeperConfig() *TransactionSweeperConfig {
	return &TransactionSweeperConfig{
		SweepInterval: time.Minute,
		BatchSize:     100,
		LockTTL:       60 * time.Second,
	}
}

// TransactionSweeper periodically expires seat holds past their expiry
// time. The sweep itself is idempotent, so overlapping runs are safe;
// the distributed lock only keeps replicas from doing the same work
// twice.
type TransactionSweeper struct {
	holds   service.SeatTransactionService
	locker  repository.SweepLocker
	config  *TransactionSweeperConfig
	log     *logger.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// Stats
	totalSwept     int64
	skippedLocked  int64
	lastSweepTime  time.Time
	lastSweepCount int
}

// NewTransactionSweeper creates a new transaction sweeper
func NewTransactionSweeper(
	holds service.SeatTransactionService,
	locker repository.SweepLocker,
	config *TransactionSweeperConfig,
) *TransactionSweeper {
	if config == nil {
		config = DefaultTransactionSweeperConfig()
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 60 * time.Second
	}

	return &TransactionSweeper{
		holds:  holds,
		locker: locker,
		config: config,
		log:    logger.Get(),
		stopCh: make(chan struct{}),
	}
}

// Start starts the sweeper
func (w *TransactionSweeper) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("transaction sweeper already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting transaction sweeper")

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

// Stop stops the sweeper and waits for the current sweep to finish
func (w *TransactionSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping transaction sweeper")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Transaction sweeper stopped")
}

func (w *TransactionSweeper) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	// Run immediately on start
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep under the distributed lock. When
// another replica holds the lock the run is skipped, not queued.
func (w *TransactionSweeper) RunOnce(ctx context.Context) {
	acquired, err := w.locker.Acquire(ctx, transactionSweepLockKey, w.config.LockTTL)
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
		if err := w.locker.Release(ctx, transactionSweepLockKey); err != nil {
			w.log.Warn(fmt.Sprintf("Failed to release sweep lock: %v", err))
		}
	}()

	swept, err := w.holds.SweepExpiredHolds(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error(fmt.Sprintf("Failed to sweep expired holds: %v", err))
		return
	}

	w.mu.Lock()
	w.totalSwept += int64(swept)
	w.lastSweepTime = time.Now()
	w.lastSweepCount = swept
	w.mu.Unlock()

	if swept > 0 {
		w.log.Info(fmt.Sprintf("Expired %d seat holds", swept))
	}
}

// GetStats returns sweeper statistics
func (w *TransactionSweeper) GetStats() *TransactionSweeperStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &TransactionSweeperStats{
		IsRunning:      w.running,
		TotalSwept:     w.totalSwept,
		SkippedLocked:  w.skippedLocked,
		LastSweepTime:  w.lastSweepTime,
		LastSweepCount: w.lastSweepCount,
	}
}

// TransactionSweeperStats contains sweeper statistics
type TransactionSweeperStats struct {
	IsRunning      bool      `json:"is_running"`
	TotalSwept     int64     `json:"total_swept"`
	SkippedLocked  int64     `json:"skipped_locked"`
	LastSweepTime  time.Time `json:"last_sweep_time"`
	LastSweepCount int       `json:"last_sweep_count"`
}
