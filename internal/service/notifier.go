package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/kafka"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
)

// NotificationPublisher pushes seat and hold changes to interested
// clients. Delivery is at-least-once; request paths never fail on a
// publish error.
type NotificationPublisher interface {
	PublishSeatStatusChanged(ctx context.Context, seat *domain.Seat) error
	PublishTransactionUpdated(ctx context.Context, venueID string, txn *domain.SeatTransaction) error
	Close()
}

// seatStatusEvent is the wire payload for seat updates
type seatStatusEvent struct {
	SeatID    string    `json:"seat_id"`
	VenueID   string    `json:"venue_id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// transactionEvent is the wire payload for hold updates
type transactionEvent struct {
	TransactionID string    `json:"transaction_id"`
	SeatID        string    `json:"seat_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	ExpiryTime    time.Time `json:"expiry_time"`
	Timestamp     time.Time `json:"timestamp"`
}

// KafkaNotificationPublisher publishes to per-venue topics so clients
// subscribe only to the venue they are viewing.
type KafkaNotificationPublisher struct {
	producer *kafka.Producer
}

// NewKafkaNotificationPublisher creates a new KafkaNotificationPublisher
func NewKafkaNotificationPublisher(producer *kafka.Producer) *KafkaNotificationPublisher {
	return &KafkaNotificationPublisher{producer: producer}
}

var _ NotificationPublisher = (*KafkaNotificationPublisher)(nil)

// PublishSeatStatusChanged publishes to seats.<venue_id>, keyed by seat
// so consumers see per-seat updates in order
func (p *KafkaNotificationPublisher) PublishSeatStatusChanged(ctx context.Context, seat *domain.Seat) error {
	event := seatStatusEvent{
		SeatID:    seat.ID,
		VenueID:   seat.VenueID,
		Label:     seat.Label,
		Status:    seat.Status.String(),
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode seat event: %w", err)
	}

	return p.producer.Produce(ctx, &kafka.Message{
		Topic: fmt.Sprintf("seats.%s", seat.VenueID),
		Key:   []byte(seat.ID),
		Value: value,
	})
}

// PublishTransactionUpdated publishes to transactions.<venue_id>
func (p *KafkaNotificationPublisher) PublishTransactionUpdated(ctx context.Context, venueID string, txn *domain.SeatTransaction) error {
	event := transactionEvent{
		TransactionID: txn.ID,
		SeatID:        txn.SeatID,
		UserID:        txn.UserID,
		Status:        txn.Status.String(),
		ExpiryTime:    txn.ExpiryTime,
		Timestamp:     time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode transaction event: %w", err)
	}

	return p.producer.Produce(ctx, &kafka.Message{
		Topic: fmt.Sprintf("transactions.%s", venueID),
		Key:   []byte(txn.SeatID),
		Value: value,
	})
}

// Close flushes and closes the producer
func (p *KafkaNotificationPublisher) Close() {
	p.producer.Close()
}

// NoOpNotificationPublisher drops all notifications. Used when Kafka is
// disabled and in tests.
type NoOpNotificationPublisher struct{}

// NewNoOpNotificationPublisher creates a new NoOpNotificationPublisher
func NewNoOpNotificationPublisher() *NoOpNotificationPublisher {
	return &NoOpNotificationPublisher{}
}

var _ NotificationPublisher = (*NoOpNotificationPublisher)(nil)

func (p *NoOpNotificationPublisher) PublishSeatStatusChanged(ctx context.Context, seat *domain.Seat) error {
	return nil
}

func (p *NoOpNotificationPublisher) PublishTransactionUpdated(ctx context.Context, venueID string, txn *domain.SeatTransaction) error {
	return nil
}

func (p *NoOpNotificationPublisher) Close() {}

// publishSeat logs instead of failing: notifications are advisory
func publishSeat(ctx context.Context, publisher NotificationPublisher, seat *domain.Seat) {
	if err := publisher.PublishSeatStatusChanged(ctx, seat); err != nil {
		logger.Get().Warn("failed to publish seat notification",
			zap.String("seat_id", seat.ID),
			zap.Error(err),
		)
	}
}
