package dto

import (
	"time"

	"github.com/quickstay/backend-hotel/internal/domain"
)

const dateLayout = "2006-01-02"

// CheckAvailabilityRequest asks whether a room is free for a date range
type CheckAvailabilityRequest struct {
	Room         string `json:"room" binding:"required"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// Dates parses the request's date strings
func (r *CheckAvailabilityRequest) Dates() (checkIn, checkOut time.Time, err error) {
	return parseDateRange(r.CheckInDate, r.CheckOutDate)
}

// CreateBookingRequest creates a booking for the authenticated user
type CreateBookingRequest struct {
	Room          string `json:"room" binding:"required"`
	CheckInDate   string `json:"checkInDate" binding:"required"`
	CheckOutDate  string `json:"checkOutDate" binding:"required"`
	Guests        int    `json:"guests" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

// Dates parses the request's date strings
func (r *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	return parseDateRange(r.CheckInDate, r.CheckOutDate)
}

// Method resolves the requested payment method, defaulting to pay at hotel
func (r *CreateBookingRequest) Method() domain.PaymentMethod {
	if r.PaymentMethod == "" {
		return domain.PaymentMethodPayAtHotel
	}
	return domain.PaymentMethod(r.PaymentMethod)
}

// UpdateStatusRequest changes a booking's lifecycle status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// VerifyPaymentRequest triggers server-side verification of a reference
type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// PaystackPaymentRequest re-initializes payment for an existing booking.
// Email overrides the token email when the payer differs from the caller.
type PaystackPaymentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Email     string `json:"email"`
}

// CheckAvailabilityResponse reports availability for the requested range
type CheckAvailabilityResponse struct {
	IsAvailable bool `json:"isAvailable"`
}

// CreateBookingResponse returns the created booking and, for gateway
// payments, the URL the payer must be redirected to
type CreateBookingResponse struct {
	Message          string          `json:"message"`
	Booking          *domain.Booking `json:"booking"`
	AuthorizationURL string          `json:"authorizationUrl,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
}

// BookingResponse wraps a single booking
type BookingResponse struct {
	Booking *domain.Booking `json:"booking"`
}

// BookingListResponse wraps a list of bookings
type BookingListResponse struct {
	Bookings []*domain.Booking `json:"bookings"`
	Count    int               `json:"count"`
}

// VerifyPaymentResponse reports the verified payment state
type VerifyPaymentResponse struct {
	Message       string               `json:"message"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Booking       *domain.Booking      `json:"booking,omitempty"`
}

func parseDateRange(in, out string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, in)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	checkOut, err := time.Parse(dateLayout, out)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateRange
	}
	return checkIn.UTC(), checkOut.UTC(), nil
}
