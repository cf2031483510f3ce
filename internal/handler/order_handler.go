package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/gateway"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/response"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// OrderHandler handles order lifecycle HTTP requests
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.order.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		span.SetStatus(codes.Error, "user id required")
		response.BadRequest(c, "X-User-ID header required")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("event_id", req.EventID),
		attribute.Int("ticket_count", len(req.TicketIDs)),
	)

	order, err := h.orderService.CreateOrder(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.order.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	order, err := h.orderService.GetOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, order)
}

// EditOrder handles PATCH /orders/:id
func (h *OrderHandler) EditOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.order.edit")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	var req dto.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}
	if len(req.Enable) == 0 && len(req.Disable) == 0 {
		span.SetStatus(codes.Error, "empty edit")
		response.BadRequest(c, "at least one ticket to enable or disable required")
		return
	}

	order, err := h.orderService.EditOrder(ctx, orderID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, order)
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.order.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	if err := h.orderService.CancelOrder(ctx, orderID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"order_id": orderID, "status": "cancelled"})
}

// PaymentCallback handles POST /payments/callback. The body follows the
// gateway's notification format, so binding errors are answered 400 and
// everything else 200: gateways retry non-2xx responses aggressively.
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.callback")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("order_code", req.OrderCode),
		attribute.String("transaction_status", req.TransactionStatus),
	)

	status := gateway.PaymentStatusUnpaid
	switch strings.ToLower(req.TransactionStatus) {
	case "capture", "settlement":
		status = gateway.PaymentStatusPaid
	}

	if err := h.orderService.HandlePaymentCallback(ctx, req.OrderCode, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"order_code": req.OrderCode})
}

// ScanTicket handles POST /tickets/scan
func (h *OrderHandler) ScanTicket(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.scan")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ScanTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}
	span.SetAttributes(attribute.String("ticket_order_id", req.TicketOrderID))

	line, err := h.orderService.ScanTicket(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, line)
}
