package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func mustDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// mockBookingService is a func-field test double for BookingService
type mockBookingService struct {
	CheckAvailabilityFunc   func(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	CreateBookingFunc       func(ctx context.Context, userID, email, roomID string, checkIn, checkOut time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error)
	GetBookingFunc          func(ctx context.Context, id string) (*domain.Booking, error)
	GetUserBookingsFunc     func(ctx context.Context, userID string) ([]*domain.Booking, error)
	GetAllBookingsFunc      func(ctx context.Context) ([]*domain.Booking, error)
	UpdateBookingStatusFunc func(ctx context.Context, bookingID string, status domain.BookingStatus) error
	DeleteBookingFunc       func(ctx context.Context, id string) error
	ReinitializePaymentFunc func(ctx context.Context, bookingID, email string) (*service.CreateBookingResult, error)
	VerifyPaymentFunc       func(ctx context.Context, ref string) (*domain.Booking, error)
	HandleChargeSuccessFunc func(ctx context.Context, ref string) (*domain.Booking, error)
	HandleChargeFailedFunc  func(ctx context.Context, ref string) (*domain.Booking, error)
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if m.CheckAvailabilityFunc != nil {
		return m.CheckAvailabilityFunc(ctx, roomID, checkIn, checkOut)
	}
	return true, nil
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID, email, roomID string, checkIn, checkOut time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, userID, email, roomID, checkIn, checkOut, guests, method)
	}
	return nil, domain.ErrRoomNotFound
}

func (m *mockBookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if m.GetUserBookingsFunc != nil {
		return m.GetUserBookingsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingService) GetAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	if m.GetAllBookingsFunc != nil {
		return m.GetAllBookingsFunc(ctx)
	}
	return nil, nil
}

func (m *mockBookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	if m.UpdateBookingStatusFunc != nil {
		return m.UpdateBookingStatusFunc(ctx, bookingID, status)
	}
	return nil
}

func (m *mockBookingService) DeleteBooking(ctx context.Context, id string) error {
	if m.DeleteBookingFunc != nil {
		return m.DeleteBookingFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingService) ReinitializePayment(ctx context.Context, bookingID, email string) (*service.CreateBookingResult, error) {
	if m.ReinitializePaymentFunc != nil {
		return m.ReinitializePaymentFunc(ctx, bookingID, email)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingService) VerifyPayment(ctx context.Context, ref string) (*domain.Booking, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, ref)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingService) HandleChargeSuccess(ctx context.Context, ref string) (*domain.Booking, error) {
	if m.HandleChargeSuccessFunc != nil {
		return m.HandleChargeSuccessFunc(ctx, ref)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingService) HandleChargeFailed(ctx context.Context, ref string) (*domain.Booking, error) {
	if m.HandleChargeFailedFunc != nil {
		return m.HandleChargeFailedFunc(ctx, ref)
	}
	return nil, domain.ErrBookingNotFound
}
