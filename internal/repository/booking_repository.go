package repository

import (
	"context"
	"time"

	"github.com/quickstay/backend-hotel/internal/domain"
)

// BookingRepository defines booking persistence operations.
//
// Payment transitions are expressed as conditional updates so that
// concurrent webhook deliveries and verify calls converge on a single
// final state without read-modify-write races.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// CountOverlapping counts non-cancelled bookings for the room whose
	// half-open date range intersects [checkIn, checkOut). excludeID, when
	// non-empty, leaves that booking out of the count.
	CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error)

	// SetPaymentInit stamps the gateway initialization outcome and the
	// assigned reference. Returns domain.ErrDuplicateReference when the
	// reference is already held by another booking.
	SetPaymentInit(ctx context.Context, id, reference string, status domain.PaymentInitStatus) error

	// MarkProvisionallyPaid transitions the booking holding reference to
	// provisionally_paid unless payment is already final. Returns the
	// updated booking, or domain.ErrBookingNotFound when no booking matched
	// the filter.
	MarkProvisionallyPaid(ctx context.Context, reference string) (*domain.Booking, error)

	// ConfirmPayment transitions to success with the verified amount and
	// currency. Never overwrites a failed payment.
	ConfirmPayment(ctx context.Context, reference string, amount float64, currency string) (*domain.Booking, error)

	// FailPayment transitions to failed. Never overwrites a successful
	// payment.
	FailPayment(ctx context.Context, reference string) (*domain.Booking, error)

	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	Delete(ctx context.Context, id string) error
}
