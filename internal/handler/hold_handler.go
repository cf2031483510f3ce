package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/response"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/telemetry"
)

// HoldHandler handles seat hold HTTP requests
type HoldHandler struct {
	holdService service.SeatTransactionService
}

// NewHoldHandler creates a new hold handler
func NewHoldHandler(holdService service.SeatTransactionService) *HoldHandler {
	return &HoldHandler{holdService: holdService}
}

// CreateHold handles POST /holds
func (h *HoldHandler) CreateHold(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hold.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("seat_id", req.SeatID),
		attribute.String("user_id", req.UserID),
	)

	hold, err := h.holdService.CreateHold(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("hold_id", hold.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, hold)
}

// GetHold handles GET /holds/:id
func (h *HoldHandler) GetHold(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hold.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hold, err := h.holdService.GetHold(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, hold)
}

// CompleteHold handles POST /holds/:id/complete
func (h *HoldHandler) CompleteHold(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hold.complete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	holdID := c.Param("id")
	span.SetAttributes(attribute.String("hold_id", holdID))

	if err := h.holdService.CompleteHold(ctx, holdID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"hold_id": holdID, "status": "completed"})
}

// CancelHold handles POST /holds/:id/cancel
func (h *HoldHandler) CancelHold(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hold.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	holdID := c.Param("id")
	span.SetAttributes(attribute.String("hold_id", holdID))

	if err := h.holdService.CancelHold(ctx, holdID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"hold_id": holdID, "status": "cancelled"})
}
