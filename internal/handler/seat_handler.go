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

// SeatHandler handles seat map HTTP requests
type SeatHandler struct {
	seatService service.SeatService
}

// NewSeatHandler creates a new seat handler
func NewSeatHandler(seatService service.SeatService) *SeatHandler {
	return &SeatHandler{seatService: seatService}
}

// ListSeats handles GET /venues/:venue_id/seats
func (h *SeatHandler) ListSeats(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.seat.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	venueID := c.Param("venue_id")
	if venueID == "" {
		span.SetStatus(codes.Error, "venue id required")
		response.BadRequest(c, "venue id required")
		return
	}
	span.SetAttributes(attribute.String("venue_id", venueID))

	seats, err := h.seatService.ListSeats(ctx, venueID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, seats)
}

// BulkUpdateStatus handles PATCH /seats/status
func (h *SeatHandler) BulkUpdateStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.seat.bulk_update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.BulkSeatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("update_count", len(req.Updates)))

	seats, err := h.seatService.BulkUpdateStatus(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, seats)
}
