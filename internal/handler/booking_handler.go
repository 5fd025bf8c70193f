package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/dto"
	"github.com/quickstay/backend-hotel/internal/gateway"
	"github.com/quickstay/backend-hotel/internal/service"
	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/middleware"
	"github.com/quickstay/backend-hotel/pkg/response"
)

// BookingHandler handles booking API requests
type BookingHandler struct {
	service service.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a booking handler
func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  logger.Get(),
	}
}

// CheckAvailability handles POST /api/bookings/check-availability
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "room, checkInDate and checkOutDate are required")
		return
	}

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		response.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), req.Room, checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{"isAvailable": available})
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "room, checkInDate, checkOutDate and guests are required")
		return
	}

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		response.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	email := c.GetString(middleware.ContextEmail)

	result, err := h.service.CreateBooking(c.Request.Context(), userID, email, req.Room, checkIn, checkOut, req.Guests, req.Method())
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.InitFailed {
		// The booking survives; the caller retries initialization via the
		// paystack-payment endpoint
		c.JSON(http.StatusBadGateway, response.Envelope{
			"success": false,
			"message": "Booking created, payment initialization failed",
			"booking": result.Booking,
		})
		return
	}

	payload := response.Envelope{
		"message": "Booking created successfully",
		"booking": result.Booking,
	}
	if result.AuthorizationURL != "" {
		payload["authorizationUrl"] = result.AuthorizationURL
		payload["paymentReference"] = result.PaymentReference
	}
	response.Created(c, payload)
}

// GetUserBookings handles GET /api/bookings/user
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetAllBookings handles GET /api/bookings
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	bookings, err := h.service.GetAllBookings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Owners and admins only
	if booking.UserID != c.GetString(middleware.ContextUserID) && c.GetString(middleware.ContextRole) != "admin" {
		response.Error(c, http.StatusForbidden, "access denied")
		return
	}

	response.OK(c, response.Envelope{"booking": booking})
}

// UpdateStatus handles PUT /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}

	if err := h.service.UpdateBookingStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status)); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{"message": "Booking status updated"})
}

// DeleteBooking handles DELETE /api/bookings/:id
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{"message": "Booking deleted"})
}

// VerifyPayment handles POST /api/bookings/verify-payment
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "reference is required")
		return
	}

	booking, err := h.service.VerifyPayment(c.Request.Context(), req.Reference)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"message":       "Payment verification completed",
		"paymentStatus": booking.PaymentStatus,
		"booking":       booking,
	})
}

// PaystackPayment handles POST /api/bookings/paystack-payment
func (h *BookingHandler) PaystackPayment(c *gin.Context) {
	var req dto.PaystackPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bookingId is required")
		return
	}

	email := req.Email
	if email == "" {
		email = c.GetString(middleware.ContextEmail)
	}

	result, err := h.service.ReinitializePayment(c.Request.Context(), req.BookingID, email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"authorizationUrl": result.AuthorizationURL,
		"paymentReference": result.PaymentReference,
		"amount":           result.Booking.PaymentAmount,
		"currency":         result.Booking.PaymentCurrency,
	})
}

// respondError maps domain and gateway errors to HTTP responses
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Error(c, http.StatusConflict, err.Error())
	case gateway.IsRetryableGatewayError(err), errors.Is(err, domain.ErrPaymentNotInitialized):
		response.Error(c, http.StatusBadGateway, "payment provider unavailable")
	default:
		var ge *gateway.GatewayError
		if errors.As(err, &ge) {
			response.Error(c, http.StatusBadGateway, "payment provider rejected the request")
			return
		}
		h.logger.Error("request failed", zap.Error(err))
		response.InternalError(c, err)
	}
}
