package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrRoomUnavailable     = errors.New("room is not available for the selected dates")
	ErrDuplicateReference  = errors.New("payment reference already exists")
	ErrPaymentAlreadyFinal = errors.New("payment is already in a final state")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")

	// Validation errors
	ErrInvalidDateRange     = errors.New("check-in date must be before check-out date")
	ErrInvalidGuests        = errors.New("guests must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrInvalidRoomPrice     = errors.New("price per night must be greater than zero")

	// Gateway errors
	ErrPaymentNotInitialized = errors.New("payment was not initialized for this booking")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrRoomNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidGuests) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidBookingStatus) ||
		errors.Is(err, ErrInvalidRoomPrice)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrRoomUnavailable) ||
		errors.Is(err, ErrDuplicateReference) ||
		errors.Is(err, ErrPaymentAlreadyFinal)
}
