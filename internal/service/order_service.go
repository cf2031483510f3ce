package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/gateway"
	"github.com/ArachnoVa-id/roetix-reservation/internal/metrics"
	"github.com/ArachnoVa-id/roetix-reservation/internal/repository"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/logger"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// OrderService manages the order lifecycle: placement under ticket row
// locks, line editing, completion, cancellation, and expiry sweeping.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	EditOrder(ctx context.Context, orderID string, req *dto.EditOrderRequest) (*dto.OrderResponse, error)
	CancelOrder(ctx context.Context, orderID string) error
	CompleteOrder(ctx context.Context, orderID string) error
	HandlePaymentCallback(ctx context.Context, orderCode string, status gateway.PaymentStatus) error
	ScanTicket(ctx context.Context, req *dto.ScanTicketRequest) (*dto.TicketOrderResponse, error)
	SweepExpiredOrders(ctx context.Context, limit int) (int, error)
}

// OrderServiceConfig holds order lifecycle settings
type OrderServiceConfig struct {
	OrderTTL time.Duration
}

type orderService struct {
	tx        repository.Transactor
	orders    repository.OrderRepository
	lines     repository.TicketOrderRepository
	tickets   repository.TicketRepository
	seats     repository.SeatRepository
	gateway   gateway.PaymentGateway
	publisher NotificationPublisher
	orderTTL  time.Duration
}

// NewOrderService creates a new OrderService
func NewOrderService(
	cfg *OrderServiceConfig,
	tx repository.Transactor,
	orders repository.OrderRepository,
	lines repository.TicketOrderRepository,
	tickets repository.TicketRepository,
	seats repository.SeatRepository,
	paymentGateway gateway.PaymentGateway,
	publisher NotificationPublisher,
) OrderService {
	ttl := time.Hour
	if cfg != nil && cfg.OrderTTL > 0 {
		ttl = cfg.OrderTTL
	}
	if publisher == nil {
		publisher = NewNoOpNotificationPublisher()
	}
	return &orderService{
		tx:        tx,
		orders:    orders,
		lines:     lines,
		tickets:   tickets,
		seats:     seats,
		gateway:   paymentGateway,
		publisher: publisher,
		orderTTL:  ttl,
	}
}

// CreateOrder places an order for a set of tickets. All requested
// tickets are locked in one statement, validated while locked, and
// written in the same transaction, so two concurrent orders for the
// same ticket can never both commit.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("event.id", req.EventID),
		attribute.Int("ticket.count", len(req.TicketIDs)),
	)

	ticketIDs := dedupeSorted(req.TicketIDs)
	if len(ticketIDs) == 0 {
		span.SetStatus(codes.Error, domain.ErrEmptyTicketList.Error())
		return nil, domain.ErrEmptyTicketList
	}
	// The request may pin a provider; it must be the one this
	// deployment is configured with.
	if req.PaymentGateway != "" && req.PaymentGateway != s.gateway.Name() {
		err := fmt.Errorf("%w: %s", domain.ErrUnsupportedGateway, req.PaymentGateway)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order := domain.NewOrder(userID, req.EventID, s.gateway.Name(), req.VenueCode, s.orderTTL)

	var createdLines []*domain.TicketOrder
	var changedSeats []*domain.Seat

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := s.tickets.ListByIDsForUpdate(txCtx, req.EventID, ticketIDs)
		if err != nil {
			return err
		}
		if len(locked) != len(ticketIDs) {
			return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, missingID(ticketIDs, locked))
		}

		var total float64
		for _, ticket := range locked {
			if err := ticket.CanPurchase(); err != nil {
				return fmt.Errorf("%w: ticket %s", err, ticket.ID)
			}
			total += ticket.Price
		}
		order.TotalPrice = total

		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		for _, ticket := range locked {
			line := domain.NewTicketOrder(order.ID, ticket.ID)
			if err := s.lines.Create(txCtx, line); err != nil {
				return err
			}
			createdLines = append(createdLines, line)

			if err := s.tickets.UpdateStatus(txCtx, ticket.ID, domain.TicketStatusBooked); err != nil {
				return err
			}
			if ticket.SeatID != "" {
				if err := s.seats.UpdateStatus(txCtx, ticket.SeatID, domain.SeatStatusBooked); err != nil {
					return err
				}
				seat, err := s.seats.GetByID(txCtx, ticket.SeatID)
				if err != nil {
					return err
				}
				changedSeats = append(changedSeats, seat)
			}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	metrics.RecordOrderCreated(ctx)
	span.SetStatus(codes.Ok, "")

	// The charge happens after commit: a gateway failure leaves the
	// order pending and payable later, never a dangling charge for an
	// order that rolled back.
	charge, err := s.gateway.Charge(ctx, &gateway.ChargeRequest{
		OrderCode:  order.OrderCode,
		Amount:     order.TotalPrice,
		CustomerID: userID,
	})
	if err != nil {
		logger.Get().Warn("payment charge failed, order left pending",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	} else {
		if err := s.orders.SetPaymentAccessor(ctx, order.ID, charge.Accessor); err != nil {
			logger.Get().Error("failed to store payment accessor",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		} else {
			order.PaymentAccessor = charge.Accessor
		}
	}

	for _, seat := range changedSeats {
		publishSeat(ctx, s.publisher, seat)
	}

	return dto.OrderFromDomain(order, createdLines), nil
}

// GetOrder returns an order with its lines
func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.OrderFromDomain(order, lines), nil
}

// EditOrder enables and disables lines of a pending order. The order
// row and every referenced ticket are locked before any validation.
// Disabled tickets go to reserved, not available: an operator turning a
// line off is holding the ticket back, not releasing it to the pool.
func (s *orderService) EditOrder(ctx context.Context, orderID string, req *dto.EditOrderRequest) (*dto.OrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.edit")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	var order *domain.Order
	var changedSeats []*domain.Seat

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orders.GetByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusPending {
			return domain.ErrOrderNotPending
		}

		allIDs := dedupeSorted(append(append([]string{}, req.Enable...), req.Disable...))
		locked, err := s.tickets.ListByIDsForUpdate(txCtx, order.EventID, allIDs)
		if err != nil {
			return err
		}
		byID := make(map[string]*domain.Ticket, len(locked))
		for _, t := range locked {
			byID[t.ID] = t
		}

		for _, ticketID := range req.Disable {
			ticket, ok := byID[ticketID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
			}
			line, err := s.lines.GetByOrderAndTicket(txCtx, orderID, ticketID)
			if err != nil {
				return err
			}
			if err := line.Deactivate(); err != nil {
				return fmt.Errorf("%w: ticket %s", err, ticketID)
			}
			if err := s.lines.Update(txCtx, line); err != nil {
				return err
			}
			if err := s.releaseTicket(txCtx, ticket, domain.TicketStatusReserved, domain.SeatStatusReserved, &changedSeats); err != nil {
				return err
			}
		}

		for _, ticketID := range req.Enable {
			ticket, ok := byID[ticketID]
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
			}
			line, err := s.lines.GetByOrderAndTicket(txCtx, orderID, ticketID)
			if err != nil {
				return err
			}
			if line.Status == domain.TicketOrderStatusEnabled {
				continue
			}
			if ticket.Status == domain.TicketStatusBooked {
				return fmt.Errorf("%w: ticket %s", domain.ErrTicketUnavailable, ticketID)
			}
			line.Enable()
			if err := s.lines.Update(txCtx, line); err != nil {
				return err
			}
			if err := s.releaseTicket(txCtx, ticket, domain.TicketStatusBooked, domain.SeatStatusBooked, &changedSeats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")

	for _, seat := range changedSeats {
		publishSeat(ctx, s.publisher, seat)
	}

	lines, err := s.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return dto.OrderFromDomain(order, lines), nil
}

// CancelOrder cancels a pending order and returns every enabled ticket
// and its seat to the public pool
func (s *orderService) CancelOrder(ctx context.Context, orderID string) error {
	err := s.finishOrder(ctx, orderID, domain.OrderStatusCancelled)
	if err == nil {
		metrics.RecordOrderCancelled(ctx)
	}
	return err
}

// CompleteOrder marks a pending order paid. Tickets stay booked.
func (s *orderService) CompleteOrder(ctx context.Context, orderID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.order.complete")
	defer span.End()

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := order.Complete(); err != nil {
			return err
		}
		return s.orders.UpdateStatus(txCtx, orderID, domain.OrderStatusCompleted)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	metrics.RecordOrderCompleted(ctx)
	span.SetStatus(codes.Ok, "")
	return nil
}

// HandlePaymentCallback applies a gateway webhook. Redelivered webhooks
// for an already completed order are acknowledged, not failed.
func (s *orderService) HandlePaymentCallback(ctx context.Context, orderCode string, status gateway.PaymentStatus) error {
	order, err := s.orders.GetByCode(ctx, orderCode)
	if err != nil {
		return err
	}

	if status != gateway.PaymentStatusPaid {
		logger.Get().Info("ignoring unpaid payment callback",
			zap.String("order_code", orderCode),
			zap.String("status", string(status)),
		)
		return nil
	}

	err = s.CompleteOrder(ctx, order.ID)
	if errors.Is(err, domain.ErrOrderAlreadyCompleted) {
		return nil
	}
	return err
}

// ScanTicket records an admission scan on an order line
func (s *orderService) ScanTicket(ctx context.Context, req *dto.ScanTicketRequest) (*dto.TicketOrderResponse, error) {
	var line *domain.TicketOrder

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		line, err = s.lines.GetByIDForUpdate(txCtx, req.TicketOrderID)
		if err != nil {
			return err
		}
		if err := line.Scan(req.ScannedBy, time.Now()); err != nil {
			return err
		}
		return s.lines.Update(txCtx, line)
	})
	if err != nil {
		return nil, err
	}
	return dto.TicketOrderFromDomain(line), nil
}

// SweepExpiredOrders settles pending orders past their payment
// deadline. Paid orders complete; unpaid orders expire and release
// their tickets. A gateway error counts as not confirmed paid, so the
// order falls through to the release path rather than holding
// inventory behind an unreachable gateway. A late paid webhook for a
// released order still lands on the callback path.
func (s *orderService) SweepExpiredOrders(ctx context.Context, limit int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.sweep_expired")
	defer span.End()

	expired, err := s.orders.ListExpiredPending(ctx, time.Now(), limit)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return 0, err
	}

	log := logger.Get()
	settled := 0
	for _, order := range expired {
		status, err := s.gateway.CheckStatus(ctx, order.OrderCode)
		if err != nil {
			log.Warn("gateway status check failed, treating order as unpaid",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
			status = gateway.PaymentStatusUnpaid
		}

		if status == gateway.PaymentStatusPaid {
			err = s.CompleteOrder(ctx, order.ID)
		} else {
			err = s.finishOrder(ctx, order.ID, domain.OrderStatusExpired)
		}
		if err != nil {
			// Another actor may have settled the order between the
			// listing and the lock. That is success, not failure.
			if domain.IsConflictError(err) {
				continue
			}
			log.Error("failed to settle expired order",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
			continue
		}
		if status != gateway.PaymentStatusPaid {
			metrics.RecordOrderExpired(ctx)
		}
		settled++
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("settled", settled))
	return settled, nil
}

// finishOrder moves a pending order to a terminal unpaid state and
// releases every enabled ticket back to available
func (s *orderService) finishOrder(ctx context.Context, orderID string, status domain.OrderStatus) error {
	var changedSeats []*domain.Seat

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		switch status {
		case domain.OrderStatusCancelled:
			if err := order.Cancel(); err != nil {
				return err
			}
		case domain.OrderStatusExpired:
			if err := order.Expire(); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidTransition
		}
		if err := s.orders.UpdateStatus(txCtx, orderID, status); err != nil {
			return err
		}

		lines, err := s.lines.ListByOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.Status != domain.TicketOrderStatusEnabled {
				continue
			}
			if err := line.Deactivate(); err != nil {
				return err
			}
			if err := s.lines.Update(txCtx, line); err != nil {
				return err
			}
			ticket, err := s.tickets.GetByID(txCtx, line.TicketID)
			if err != nil {
				return err
			}
			if err := s.releaseTicket(txCtx, ticket, domain.TicketStatusAvailable, domain.SeatStatusAvailable, &changedSeats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, seat := range changedSeats {
		publishSeat(ctx, s.publisher, seat)
	}
	return nil
}

// releaseTicket moves a ticket and, when seated, its seat to the given
// statuses, collecting the updated seat for post-commit notification
func (s *orderService) releaseTicket(ctx context.Context, ticket *domain.Ticket, ticketStatus domain.TicketStatus, seatStatus domain.SeatStatus, changedSeats *[]*domain.Seat) error {
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, ticketStatus); err != nil {
		return err
	}
	if ticket.SeatID == "" {
		return nil
	}
	if err := s.seats.UpdateStatus(ctx, ticket.SeatID, seatStatus); err != nil {
		return err
	}
	seat, err := s.seats.GetByID(ctx, ticket.SeatID)
	if err != nil {
		return err
	}
	*changedSeats = append(*changedSeats, seat)
	return nil
}

// dedupeSorted returns the unique ids in ascending order
func dedupeSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// missingID names the first requested id absent from the locked set
func missingID(requested []string, locked []*domain.Ticket) string {
	have := make(map[string]struct{}, len(locked))
	for _, t := range locked {
		have[t.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			return id
		}
	}
	return ""
}
