package domain

import "errors"

// Not found errors
var (
	ErrSeatNotFound        = errors.New("seat not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTicketOrderNotFound = errors.New("ticket order not found")
	ErrHoldNotFound        = errors.New("seat transaction not found")
)

// Conflict errors
var (
	ErrSeatUnavailable       = errors.New("seat is not available")
	ErrTicketUnavailable     = errors.New("ticket is not available")
	ErrOrderNotPending       = errors.New("order is not pending")
	ErrOrderAlreadyCompleted = errors.New("order already completed")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrHoldNotPending        = errors.New("seat transaction is not pending")
	ErrHoldAlreadyCompleted  = errors.New("seat transaction already completed")
	ErrHoldAlreadyCancelled  = errors.New("seat transaction already cancelled")
	ErrTicketAlreadyScanned  = errors.New("ticket already scanned")
	ErrLineDeactivated       = errors.New("ticket order is deactivated")
	ErrDuplicateOrderCode    = errors.New("order code already exists")
)

// Validation errors
var (
	ErrEmptyTicketList    = errors.New("ticket list is empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTicketWrongEvent   = errors.New("ticket does not belong to event")
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")
)

// External collaborator errors
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPublishFailed      = errors.New("failed to publish notification")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTicketOrderNotFound) ||
		errors.Is(err, ErrHoldNotFound)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatUnavailable) ||
		errors.Is(err, ErrTicketUnavailable) ||
		errors.Is(err, ErrOrderNotPending) ||
		errors.Is(err, ErrOrderAlreadyCompleted) ||
		errors.Is(err, ErrOrderAlreadyCancelled) ||
		errors.Is(err, ErrHoldNotPending) ||
		errors.Is(err, ErrHoldAlreadyCompleted) ||
		errors.Is(err, ErrHoldAlreadyCancelled) ||
		errors.Is(err, ErrTicketAlreadyScanned) ||
		errors.Is(err, ErrLineDeactivated) ||
		errors.Is(err, ErrDuplicateOrderCode)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTicketList) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTicketWrongEvent) ||
		errors.Is(err, ErrUnsupportedGateway)
}

// IsGatewayError checks if the error comes from the payment gateway
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}
