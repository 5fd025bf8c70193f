package service

import (
	"context"
	"time"

	"github.com/quickstay/backend-hotel/internal/domain"
)

// mockBookingRepository is a func-field test double for BookingRepository
type mockBookingRepository struct {
	CreateFunc                func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Booking, error)
	GetByReferenceFunc        func(ctx context.Context, reference string) (*domain.Booking, error)
	ListAllFunc               func(ctx context.Context) ([]*domain.Booking, error)
	ListByUserFunc            func(ctx context.Context, userID string) ([]*domain.Booking, error)
	CountOverlappingFunc      func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error)
	SetPaymentInitFunc        func(ctx context.Context, id, reference string, status domain.PaymentInitStatus) error
	MarkProvisionallyPaidFunc func(ctx context.Context, reference string) (*domain.Booking, error)
	ConfirmPaymentFunc        func(ctx context.Context, reference string, amount float64, currency string) (*domain.Booking, error)
	FailPaymentFunc           func(ctx context.Context, reference string) (*domain.Booking, error)
	UpdateStatusFunc          func(ctx context.Context, id string, status domain.BookingStatus) error
	DeleteFunc                func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingRepository) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
	if m.CountOverlappingFunc != nil {
		return m.CountOverlappingFunc(ctx, roomID, checkIn, checkOut, excludeID)
	}
	return 0, nil
}

func (m *mockBookingRepository) SetPaymentInit(ctx context.Context, id, reference string, status domain.PaymentInitStatus) error {
	if m.SetPaymentInitFunc != nil {
		return m.SetPaymentInitFunc(ctx, id, reference, status)
	}
	return nil
}

func (m *mockBookingRepository) MarkProvisionallyPaid(ctx context.Context, reference string) (*domain.Booking, error) {
	if m.MarkProvisionallyPaidFunc != nil {
		return m.MarkProvisionallyPaidFunc(ctx, reference)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepository) ConfirmPayment(ctx context.Context, reference string, amount float64, currency string) (*domain.Booking, error) {
	if m.ConfirmPaymentFunc != nil {
		return m.ConfirmPaymentFunc(ctx, reference, amount, currency)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepository) FailPayment(ctx context.Context, reference string) (*domain.Booking, error) {
	if m.FailPaymentFunc != nil {
		return m.FailPaymentFunc(ctx, reference)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockRoomRepository is a func-field test double for RoomRepository
type mockRoomRepository struct {
	CreateFunc          func(ctx context.Context, room *domain.Room) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Room, error)
	ListAllFunc         func(ctx context.Context) ([]*domain.Room, error)
	SetAvailabilityFunc func(ctx context.Context, id string, available bool) error
	DeleteFunc          func(ctx context.Context, id string) error
}

func (m *mockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrRoomNotFound
}

func (m *mockRoomRepository) ListAll(ctx context.Context) ([]*domain.Room, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockRoomRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available)
	}
	return nil
}

func (m *mockRoomRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockEventPublisher records published events
type mockEventPublisher struct {
	Events     []*domain.BookingEvent
	PublishErr error
}

func (m *mockEventPublisher) PublishBookingEvent(ctx context.Context, event *domain.BookingEvent) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *mockEventPublisher) eventTypes() []string {
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType)
	}
	return types
}
