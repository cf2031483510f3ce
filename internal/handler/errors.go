package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/pkg/response"
)

// handleError maps domain errors to HTTP status codes
func handleError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case domain.IsValidationError(err):
		response.UnprocessableEntity(c, err.Error())
	case domain.IsGatewayError(err):
		response.ServiceUnavailable(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
