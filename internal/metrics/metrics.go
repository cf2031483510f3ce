package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

var (
	// Order counters
	OrdersCreated   *telemetry.Counter
	OrdersCompleted *telemetry.Counter
	OrdersCancelled *telemetry.Counter
	OrdersExpired   *telemetry.Counter

	// Hold counters
	HoldsCreated *telemetry.Counter
	HoldsExpired *telemetry.Counter

	// Histograms
	SweepDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all reservation metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	OrdersCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_orders_created_total",
		Description: "Total number of orders placed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OrdersCompleted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_orders_completed_total",
		Description: "Total number of orders completed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OrdersCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_orders_cancelled_total",
		Description: "Total number of orders cancelled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OrdersExpired, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_orders_expired_total",
		Description: "Total number of orders expired by the sweeper",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	HoldsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_holds_created_total",
		Description: "Total number of seat holds opened",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	HoldsExpired, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reservation_holds_expired_total",
		Description: "Total number of seat holds expired by the sweeper",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SweepDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "reservation_sweep_duration_seconds",
		Description: "Duration of sweep batches",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordOrderCreated increments the order creation counter
func RecordOrderCreated(ctx context.Context) {
	if OrdersCreated != nil {
		OrdersCreated.Inc(ctx)
	}
}

// RecordOrderCompleted increments the order completion counter
func RecordOrderCompleted(ctx context.Context) {
	if OrdersCompleted != nil {
		OrdersCompleted.Inc(ctx)
	}
}

// RecordOrderCancelled increments the order cancellation counter
func RecordOrderCancelled(ctx context.Context) {
	if OrdersCancelled != nil {
		OrdersCancelled.Inc(ctx)
	}
}

// RecordOrderExpired increments the order expiry counter
func RecordOrderExpired(ctx context.Context) {
	if OrdersExpired != nil {
		OrdersExpired.Inc(ctx)
	}
}

// RecordHoldCreated increments the hold creation counter
func RecordHoldCreated(ctx context.Context) {
	if HoldsCreated != nil {
		HoldsCreated.Inc(ctx)
	}
}

// RecordHoldsExpired adds to the hold expiry counter
func RecordHoldsExpired(ctx context.Context, count int64) {
	if HoldsExpired != nil && count > 0 {
		HoldsExpired.Add(ctx, count)
	}
}

// RecordSweepDuration records how long a sweep batch took
func RecordSweepDuration(ctx context.Context, d time.Duration) {
	if SweepDuration != nil {
		SweepDuration.Record(ctx, d.Seconds())
	}
}
