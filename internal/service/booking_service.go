package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/gateway"
	"github.com/quickstay/backend-hotel/internal/metrics"
	"github.com/quickstay/backend-hotel/internal/repository"
	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/reference"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

// CreateBookingResult is the outcome of creating a booking. For gateway
// payments AuthorizationURL carries the hosted checkout redirect; when
// initialization fails the booking still exists and InitFailed is set.
type CreateBookingResult struct {
	Booking          *domain.Booking
	AuthorizationURL string
	PaymentReference string
	InitFailed       bool
}

// BookingService defines booking business operations
type BookingService interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(ctx context.Context, userID, email, roomID string, checkIn, checkOut time.Time, guests int, method domain.PaymentMethod) (*CreateBookingResult, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error)
	GetAllBookings(ctx context.Context) ([]*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error

	// ReinitializePayment starts a fresh checkout for an existing booking,
	// reusing its stored payment reference.
	ReinitializePayment(ctx context.Context, bookingID, email string) (*CreateBookingResult, error)

	// VerifyPayment marks the referenced payment paid on the caller's
	// return from the hosted checkout; the gateway is not consulted.
	// Authoritative reconciliation stays on the webhook path.
	VerifyPayment(ctx context.Context, ref string) (*domain.Booking, error)

	// HandleChargeSuccess applies a gateway success notification: an
	// optimistic provisional write followed by independent verification.
	HandleChargeSuccess(ctx context.Context, ref string) (*domain.Booking, error)

	// HandleChargeFailed applies a gateway failure notification
	HandleChargeFailed(ctx context.Context, ref string) (*domain.Booking, error)
}

// BookingServiceConfig holds booking service configuration
type BookingServiceConfig struct {
	DefaultCurrency string
	CallbackBaseURL string
}

// DefaultBookingServiceConfig returns the default configuration
func DefaultBookingServiceConfig() *BookingServiceConfig {
	return &BookingServiceConfig{
		DefaultCurrency: "GHS",
	}
}

type bookingService struct {
	bookings  repository.BookingRepository
	rooms     repository.RoomRepository
	gateway   gateway.PaymentGateway
	publisher EventPublisher
	config    *BookingServiceConfig
	metrics   *metrics.BookingMetrics
	logger    *zap.Logger
}

// NewBookingService creates a booking service
func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	gw gateway.PaymentGateway,
	publisher EventPublisher,
	cfg *BookingServiceConfig,
) BookingService {
	if cfg == nil {
		cfg = DefaultBookingServiceConfig()
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "GHS"
	}
	if publisher == nil {
		publisher = &NoOpEventPublisher{}
	}
	return &bookingService{
		bookings:  bookings,
		rooms:     rooms,
		gateway:   gw,
		publisher: publisher,
		config:    cfg,
		metrics:   metrics.NewBookingMetrics(),
		logger:    logger.Get(),
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.check_availability")
	defer span.End()
	span.SetAttributes(attribute.String("booking.room_id", roomID))

	if !checkIn.Before(checkOut) {
		return false, domain.ErrInvalidDateRange
	}

	// The listing flag on the room is advisory; availability is derived
	// from bookings alone
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, err
	}

	count, err := s.bookings.CountOverlapping(ctx, roomID, checkIn, checkOut, "")
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID, email, roomID string, checkIn, checkOut time.Time, guests int, method domain.PaymentMethod) (*CreateBookingResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.room_id", roomID),
		attribute.String("booking.user_id", userID),
	)

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	count, err := s.bookings.CountOverlapping(ctx, roomID, checkIn, checkOut, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		s.metrics.BookingConflicts.Inc(ctx)
		return nil, domain.ErrRoomUnavailable
	}

	booking, err := domain.NewBooking(roomID, userID, room.HotelID, checkIn, checkOut, guests, method, room.PricePerNight, s.config.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	// The check above and the insert are not atomic, so a concurrent
	// request may have inserted an overlapping booking in between. Re-check
	// and roll back on conflict rather than leave a double booking.
	count, err = s.bookings.CountOverlapping(ctx, roomID, checkIn, checkOut, booking.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		if delErr := s.bookings.Delete(ctx, booking.ID); delErr != nil {
			s.logger.Error("failed to roll back conflicting booking",
				zap.String("booking_id", booking.ID),
				zap.Error(delErr),
			)
		}
		s.metrics.BookingConflicts.Inc(ctx)
		return nil, domain.ErrRoomUnavailable
	}

	s.metrics.BookingsCreated.Inc(ctx)
	s.publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, booking))

	result := &CreateBookingResult{Booking: booking}
	if !method.RequiresOnlinePayment() {
		return result, nil
	}

	return s.initializePayment(ctx, booking, email, result)
}

// initializePayment assigns a reference and starts a hosted checkout. A
// gateway failure does not undo the booking; it is recorded on the booking
// so payment can be re-initialized later.
func (s *bookingService) initializePayment(ctx context.Context, booking *domain.Booking, email string, result *CreateBookingResult) (*CreateBookingResult, error) {
	ref, err := s.assignReference(ctx, booking.ID)
	if err != nil {
		s.logger.Error("failed to assign payment reference",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
		s.markInitFailed(ctx, booking)
		result.Booking = booking
		result.InitFailed = true
		return result, nil
	}
	booking.PaymentReference = ref
	booking.PaymentInitStatus = domain.PaymentInitInitialized

	amountMinor := int64(math.Round(booking.TotalPrice * 100))
	init, err := s.gateway.InitializeTransaction(ctx, email, amountMinor, booking.PaymentCurrency, ref, s.config.CallbackBaseURL)
	if err != nil {
		s.logger.Warn("payment initialization failed",
			zap.String("booking_id", booking.ID),
			zap.String("payment_reference", ref),
			zap.Error(err),
		)
		s.metrics.PaymentInitFailures.Inc(ctx)
		s.markInitFailed(ctx, booking)
		result.InitFailed = true
		return result, nil
	}

	s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentPending, booking))

	result.AuthorizationURL = init.AuthorizationURL
	result.PaymentReference = ref
	return result, nil
}

// assignReference generates a payment reference and stamps it on the
// booking, retrying once if the generated value collides with the unique
// index.
func (s *bookingService) assignReference(ctx context.Context, bookingID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		ref, err := reference.Generate()
		if err != nil {
			return "", err
		}
		err = s.bookings.SetPaymentInit(ctx, bookingID, ref, domain.PaymentInitInitialized)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, domain.ErrDuplicateReference) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (s *bookingService) markInitFailed(ctx context.Context, booking *domain.Booking) {
	booking.PaymentInitStatus = domain.PaymentInitFailed
	if err := s.bookings.SetPaymentInit(ctx, booking.ID, "", domain.PaymentInitFailed); err != nil {
		s.logger.Error("failed to record payment init failure",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	return s.bookings.GetByID(ctx, id)
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_user")
	defer span.End()

	return s.bookings.ListByUser(ctx, userID)
}

func (s *bookingService) GetAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_all")
	defer span.End()

	return s.bookings.ListAll(ctx)
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.update_status")
	defer span.End()
	span.SetAttributes(attribute.String("booking.status", string(status)))

	if !status.Valid() {
		return domain.ErrInvalidBookingStatus
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return err
	}

	if status == domain.BookingStatusCancelled {
		if booking, err := s.bookings.GetByID(ctx, bookingID); err == nil {
			s.publish(ctx, domain.NewBookingEvent(domain.EventBookingCancelled, booking))
		}
	}
	return nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.delete")
	defer span.End()

	return s.bookings.Delete(ctx, id)
}

// ReinitializePayment re-runs the hosted checkout for a booking whose
// payment is still open. The stored reference is reused when present; it
// is the correlation key the webhook resolves and never changes once set.
func (s *bookingService) ReinitializePayment(ctx context.Context, bookingID, email string) (*CreateBookingResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.reinitialize_payment")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", bookingID))

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus.IsFinal() {
		return nil, domain.ErrPaymentAlreadyFinal
	}

	ref := booking.PaymentReference
	if ref == "" {
		ref, err = s.assignReference(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		booking.PaymentReference = ref
	} else if err := s.bookings.SetPaymentInit(ctx, booking.ID, "", domain.PaymentInitInitialized); err != nil {
		return nil, err
	}
	booking.PaymentInitStatus = domain.PaymentInitInitialized

	amountMinor := int64(math.Round(booking.PaymentAmount * 100))
	init, err := s.gateway.InitializeTransaction(ctx, email, amountMinor, booking.PaymentCurrency, ref, s.config.CallbackBaseURL)
	if err != nil {
		s.metrics.PaymentInitFailures.Inc(ctx)
		s.markInitFailed(ctx, booking)
		return nil, err
	}

	s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentPending, booking))

	return &CreateBookingResult{
		Booking:          booking,
		AuthorizationURL: init.AuthorizationURL,
		PaymentReference: ref,
	}, nil
}

// VerifyPayment trusts the caller's return from the hosted checkout and
// promotes the payment to success without a gateway round trip. The
// webhook path holds the authoritative reconciliation; this keeps the
// checkout-return flow working through a provider outage.
func (s *bookingService) VerifyPayment(ctx context.Context, ref string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.verify_payment")
	defer span.End()
	span.SetAttributes(attribute.String("payment.reference", ref))

	booking, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus.IsFinal() {
		return booking, nil
	}

	confirmed, err := s.bookings.ConfirmPayment(ctx, ref, booking.PaymentAmount, booking.PaymentCurrency)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			// Lost to a concurrent failed transition; report what stands
			return s.bookings.GetByReference(ctx, ref)
		}
		return nil, err
	}

	s.metrics.PaymentsSucceeded.Inc(ctx)
	s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentSuccess, confirmed))
	return confirmed, nil
}

func (s *bookingService) HandleChargeSuccess(ctx context.Context, ref string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.handle_charge_success")
	defer span.End()
	span.SetAttributes(attribute.String("payment.reference", ref))

	// Optimistic write first: the booking reflects the gateway's claim even
	// if the verification call below cannot complete.
	booking, err := s.bookings.MarkProvisionallyPaid(ctx, ref)
	if err != nil {
		if !errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		// Either an unknown reference or a payment already in a final
		// state. Finals are idempotent acknowledgements.
		booking, err = s.bookings.GetByReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		if booking.PaymentStatus.IsFinal() {
			return booking, nil
		}
	}

	verified, err := s.gateway.VerifyTransaction(ctx, ref)
	if err != nil {
		// The provisional state stands; the provider will retry delivery
		return nil, err
	}

	return s.reconcile(ctx, ref, verified)
}

func (s *bookingService) HandleChargeFailed(ctx context.Context, ref string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.handle_charge_failed")
	defer span.End()
	span.SetAttributes(attribute.String("payment.reference", ref))

	booking, err := s.bookings.FailPayment(ctx, ref)
	if err != nil {
		if !errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		booking, err = s.bookings.GetByReference(ctx, ref)
		if err != nil {
			return nil, err
		}
		// Success is sticky; a late failure notification is ignored
		return booking, nil
	}

	s.metrics.PaymentsFailed.Inc(ctx)
	s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentFailed, booking))
	return booking, nil
}

// reconcile applies the gateway's authoritative transaction state
func (s *bookingService) reconcile(ctx context.Context, ref string, verified *gateway.VerifyResult) (*domain.Booking, error) {
	if verified.Succeeded() {
		amount := float64(verified.Amount) / 100
		booking, err := s.bookings.ConfirmPayment(ctx, ref, amount, verified.Currency)
		if err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				// Lost to a concurrent failed transition; report what stands
				return s.bookings.GetByReference(ctx, ref)
			}
			return nil, err
		}
		s.metrics.PaymentsSucceeded.Inc(ctx)
		s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentSuccess, booking))
		return booking, nil
	}

	if verified.Status == gateway.TxnStatusFailed || verified.Status == gateway.TxnStatusAbandoned {
		booking, err := s.bookings.FailPayment(ctx, ref)
		if err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				return s.bookings.GetByReference(ctx, ref)
			}
			return nil, err
		}
		s.metrics.PaymentsFailed.Inc(ctx)
		s.publish(ctx, domain.NewBookingEvent(domain.EventPaymentFailed, booking))
		return booking, nil
	}

	// Neither settled nor dead at the gateway. An ack here would stop
	// redelivery and strand the booking in provisionally_paid, so report
	// a retryable fault instead.
	return nil, &gateway.GatewayError{
		Operation: "verify",
		Message:   fmt.Sprintf("transaction %s not settled: status %q", ref, verified.Status),
		Retryable: true,
	}
}

// publish sends a booking event, logging instead of failing the request
// when delivery is unavailable.
func (s *bookingService) publish(ctx context.Context, event *domain.BookingEvent) {
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("event_type", event.EventType),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}
