package domain

import "time"

// Booking event types published to the booking-events topic
const (
	EventBookingCreated   = "booking.created"
	EventPaymentPending   = "booking.payment_pending"
	EventPaymentSuccess   = "booking.payment_success"
	EventPaymentFailed    = "booking.payment_failed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the envelope for booking lifecycle events
type BookingEvent struct {
	EventType        string        `json:"event_type"`
	BookingID        string        `json:"booking_id"`
	RoomID           string        `json:"room_id"`
	UserID           string        `json:"user_id"`
	Status           BookingStatus `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	TotalPrice       float64       `json:"total_price"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

// NewBookingEvent builds an event snapshot from the booking's current state
func NewBookingEvent(eventType string, b *Booking) *BookingEvent {
	return &BookingEvent{
		EventType:        eventType,
		BookingID:        b.ID,
		RoomID:           b.RoomID,
		UserID:           b.UserID,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		PaymentReference: b.PaymentReference,
		TotalPrice:       b.TotalPrice,
		OccurredAt:       time.Now().UTC(),
	}
}
