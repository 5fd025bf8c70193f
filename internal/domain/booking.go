package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the booking lifecycle status
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod represents how a booking is paid
type PaymentMethod string

const (
	PaymentMethodPaystack   PaymentMethod = "paystack"
	PaymentMethodPayAtHotel PaymentMethod = "pay_at_hotel"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodPaystack || m == PaymentMethodPayAtHotel
}

// RequiresOnlinePayment reports whether the method goes through the gateway
func (m PaymentMethod) RequiresOnlinePayment() bool {
	return m == PaymentMethodPaystack
}

// PaymentStatus represents the payment state of a booking.
//
// The webhook acknowledges a gateway charge before independently verifying
// it, so the optimistic window between "the gateway said success" and "we
// confirmed it ourselves" is a distinct state instead of a bare boolean.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProvisionallyPaid PaymentStatus = "provisionally_paid"
	PaymentStatusSuccess           PaymentStatus = "success"
	PaymentStatusFailed            PaymentStatus = "failed"
)

// IsFinal reports whether the payment state admits no further transitions
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// PaymentInitStatus records the outcome of gateway initialization at
// booking creation, so a booking whose init call failed is
// distinguishable from one awaiting payer action.
type PaymentInitStatus string

const (
	PaymentInitNotRequired PaymentInitStatus = "not_required"
	PaymentInitInitialized PaymentInitStatus = "initialized"
	PaymentInitFailed      PaymentInitStatus = "failed"
)

// Booking represents a room booking
type Booking struct {
	ID                string            `bson:"_id" json:"id"`
	RoomID            string            `bson:"room" json:"room"`
	UserID            string            `bson:"user" json:"user"`
	HotelID           string            `bson:"hotel,omitempty" json:"hotel,omitempty"`
	CheckInDate       time.Time         `bson:"checkInDate" json:"checkInDate"`
	CheckOutDate      time.Time         `bson:"checkOutDate" json:"checkOutDate"`
	Guests            int               `bson:"guests" json:"guests"`
	TotalPrice        float64           `bson:"totalPrice" json:"totalPrice"`
	Status            BookingStatus     `bson:"status" json:"status"`
	PaymentMethod     PaymentMethod     `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus     PaymentStatus     `bson:"paymentStatus" json:"paymentStatus"`
	IsPaid            bool              `bson:"isPaid" json:"isPaid"`
	PaymentReference  string            `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	PaymentAmount     float64           `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	PaymentCurrency   string            `bson:"paymentCurrency,omitempty" json:"paymentCurrency,omitempty"`
	PaymentInitStatus PaymentInitStatus `bson:"paymentInitStatus" json:"paymentInitStatus"`
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// NewBooking creates a pending booking for the given room and date range.
// TotalPrice is fixed here and never recalculated by later events.
func NewBooking(roomID, userID, hotelID string, checkIn, checkOut time.Time, guests int, method PaymentMethod, pricePerNight float64, currency string) (*Booking, error) {
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}
	if guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}

	now := time.Now().UTC()
	total := float64(nights) * pricePerNight

	initStatus := PaymentInitNotRequired
	b := &Booking{
		ID:                uuid.New().String(),
		RoomID:            roomID,
		UserID:            userID,
		HotelID:           hotelID,
		CheckInDate:       checkIn,
		CheckOutDate:      checkOut,
		Guests:            guests,
		TotalPrice:        total,
		Status:            BookingStatusPending,
		PaymentMethod:     method,
		PaymentStatus:     PaymentStatusPending,
		PaymentInitStatus: initStatus,
		PaymentAmount:     total,
		PaymentCurrency:   currency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return b, nil
}

// Nights returns the number of nights covered by the range, rounding any
// partial day up.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// RangesOverlap reports whether two half-open date ranges overlap.
// Back-to-back ranges (aOut == bIn) do not overlap.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// MarkProvisionallyPaid applies the optimistic webhook write: the gateway
// reported a successful charge but we have not verified it yet.
// A no-op when payment is already final.
func (b *Booking) MarkProvisionallyPaid() error {
	if b.PaymentStatus.IsFinal() {
		return ErrPaymentAlreadyFinal
	}
	b.PaymentStatus = PaymentStatusProvisionallyPaid
	b.IsPaid = true
	b.PaymentMethod = PaymentMethodPaystack
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// ConfirmPayment records the authoritative verification result.
// TotalPrice is untouched; only the captured payment values change.
func (b *Booking) ConfirmPayment(amount float64, currency, ref string) error {
	if b.PaymentStatus == PaymentStatusFailed {
		return ErrPaymentAlreadyFinal
	}
	b.PaymentStatus = PaymentStatusSuccess
	b.IsPaid = true
	b.PaymentAmount = amount
	if currency != "" {
		b.PaymentCurrency = currency
	}
	if ref != "" {
		b.PaymentReference = ref
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// FailPayment marks the payment as failed. A no-op error when already
// confirmed — success never regresses to failed.
func (b *Booking) FailPayment() error {
	if b.PaymentStatus == PaymentStatusSuccess {
		return ErrPaymentAlreadyFinal
	}
	b.PaymentStatus = PaymentStatusFailed
	b.IsPaid = false
	b.UpdatedAt = time.Now().UTC()
	return nil
}
