package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/gateway"
	"github.com/quickstay/backend-hotel/internal/service"
	"github.com/quickstay/backend-hotel/pkg/middleware"
)

// asUser injects an authenticated identity the way the auth middleware does
func asUser(userID, email, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, email)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func bookingRouter(h *BookingHandler) *gin.Engine {
	router := gin.New()
	authed := router.Group("/api/bookings", asUser("user-1", "guest@example.com", "user"))
	authed.POST("/check-availability", h.CheckAvailability)
	authed.POST("", h.CreateBooking)
	authed.POST("/verify-payment", h.VerifyPayment)
	authed.POST("/paystack-payment", h.PaystackPayment)
	authed.GET("/user", h.GetUserBookings)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingHandler_CheckAvailability(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		available  bool
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "available",
			payload:    gin.H{"room": "room-1", "checkInDate": "2026-09-01", "checkOutDate": "2026-09-04"},
			available:  true,
			wantStatus: http.StatusOK,
			wantBody:   `"isAvailable":true`,
		},
		{
			name:       "unavailable",
			payload:    gin.H{"room": "room-1", "checkInDate": "2026-09-01", "checkOutDate": "2026-09-04"},
			available:  false,
			wantStatus: http.StatusOK,
			wantBody:   `"isAvailable":false`,
		},
		{
			name:       "missing fields",
			payload:    gin.H{"room": "room-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date format",
			payload:    gin.H{"room": "room-1", "checkInDate": "01/09/2026", "checkOutDate": "04/09/2026"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown room",
			payload:    gin.H{"room": "missing", "checkInDate": "2026-09-01", "checkOutDate": "2026-09-04"},
			serviceErr: domain.ErrRoomNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				CheckAvailabilityFunc: func(ctx context.Context, roomID string, in, out time.Time) (bool, error) {
					if tt.serviceErr != nil {
						return false, tt.serviceErr
					}
					return tt.available, nil
				},
			}
			router := bookingRouter(NewBookingHandler(svc))

			w := postJSON(router, "/api/bookings/check-availability", tt.payload)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	payload := gin.H{
		"room":          "room-1",
		"checkInDate":   "2026-09-01",
		"checkOutDate":  "2026-09-04",
		"guests":        2,
		"paymentMethod": "paystack",
	}

	t.Run("created with checkout URL", func(t *testing.T) {
		booking, err := domain.NewBooking("room-1", "user-1", "hotel-1",
			mustDay("2026-09-01"), mustDay("2026-09-04"), 2, domain.PaymentMethodPaystack, 100, "GHS")
		require.NoError(t, err)

		svc := &mockBookingService{
			CreateBookingFunc: func(ctx context.Context, userID, email, roomID string, in, out time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error) {
				assert.Equal(t, "user-1", userID)
				assert.Equal(t, "guest@example.com", email)
				assert.Equal(t, domain.PaymentMethodPaystack, method)
				return &service.CreateBookingResult{
					Booking:          booking,
					AuthorizationURL: "https://checkout.paystack.com/xyz",
					PaymentReference: "ref-1",
				}, nil
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings", payload)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"authorizationUrl":"https://checkout.paystack.com/xyz"`)
		assert.Contains(t, w.Body.String(), `"paymentReference":"ref-1"`)
	})

	t.Run("date conflict returns 409", func(t *testing.T) {
		svc := &mockBookingService{
			CreateBookingFunc: func(ctx context.Context, userID, email, roomID string, in, out time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error) {
				return nil, domain.ErrRoomUnavailable
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings", payload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("init failure surfaces as 502 with the booking retained", func(t *testing.T) {
		booking, err := domain.NewBooking("room-1", "user-1", "hotel-1",
			mustDay("2026-09-01"), mustDay("2026-09-04"), 2, domain.PaymentMethodPaystack, 100, "GHS")
		require.NoError(t, err)
		booking.PaymentInitStatus = domain.PaymentInitFailed

		svc := &mockBookingService{
			CreateBookingFunc: func(ctx context.Context, userID, email, roomID string, in, out time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error) {
				return &service.CreateBookingResult{Booking: booking, InitFailed: true}, nil
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings", payload)
		assert.Equal(t, http.StatusBadGateway, w.Code, "a client checking the status must learn init failed")
		assert.Contains(t, w.Body.String(), `"success":false`)
		assert.Contains(t, w.Body.String(), "payment initialization failed")
		assert.Contains(t, w.Body.String(), booking.ID, "the created booking rides along for the retry")
		assert.NotContains(t, w.Body.String(), "authorizationUrl")
	})

	t.Run("invalid guests returns 400", func(t *testing.T) {
		svc := &mockBookingService{
			CreateBookingFunc: func(ctx context.Context, userID, email, roomID string, in, out time.Time, guests int, method domain.PaymentMethod) (*service.CreateBookingResult, error) {
				return nil, domain.ErrInvalidGuests
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		bad := gin.H{"room": "room-1", "checkInDate": "2026-09-01", "checkOutDate": "2026-09-04", "guests": -2}
		w := postJSON(router, "/api/bookings", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingHandler_VerifyPayment(t *testing.T) {
	t.Run("returns reconciled state", func(t *testing.T) {
		booking, err := domain.NewBooking("room-1", "user-1", "hotel-1",
			mustDay("2026-09-01"), mustDay("2026-09-04"), 2, domain.PaymentMethodPaystack, 100, "GHS")
		require.NoError(t, err)
		require.NoError(t, booking.ConfirmPayment(300, "GHS", "ref-1"))

		svc := &mockBookingService{
			VerifyPaymentFunc: func(ctx context.Context, ref string) (*domain.Booking, error) {
				assert.Equal(t, "ref-1", ref)
				return booking, nil
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings/verify-payment", gin.H{"reference": "ref-1"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"paymentStatus":"success"`)
	})

	t.Run("uninitialized payment returns 502", func(t *testing.T) {
		svc := &mockBookingService{
			VerifyPaymentFunc: func(ctx context.Context, ref string) (*domain.Booking, error) {
				return nil, domain.ErrPaymentNotInitialized
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings/verify-payment", gin.H{"reference": "ref-1"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unknown reference returns 404", func(t *testing.T) {
		router := bookingRouter(NewBookingHandler(&mockBookingService{}))

		w := postJSON(router, "/api/bookings/verify-payment", gin.H{"reference": "ref-missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingHandler_PaystackPayment(t *testing.T) {
	t.Run("returns checkout details", func(t *testing.T) {
		booking, err := domain.NewBooking("room-1", "user-1", "hotel-1",
			mustDay("2026-09-01"), mustDay("2026-09-04"), 2, domain.PaymentMethodPaystack, 100, "GHS")
		require.NoError(t, err)
		booking.PaymentReference = "ref-1"

		svc := &mockBookingService{
			ReinitializePaymentFunc: func(ctx context.Context, bookingID, email string) (*service.CreateBookingResult, error) {
				assert.Equal(t, booking.ID, bookingID)
				assert.Equal(t, "guest@example.com", email)
				return &service.CreateBookingResult{
					Booking:          booking,
					AuthorizationURL: "https://checkout.paystack.com/retry",
					PaymentReference: "ref-1",
				}, nil
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings/paystack-payment", gin.H{"bookingId": booking.ID})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authorizationUrl":"https://checkout.paystack.com/retry"`)
		assert.Contains(t, w.Body.String(), `"paymentReference":"ref-1"`)
	})

	t.Run("gateway outage returns 502", func(t *testing.T) {
		svc := &mockBookingService{
			ReinitializePaymentFunc: func(ctx context.Context, bookingID, email string) (*service.CreateBookingResult, error) {
				return nil, &gateway.GatewayError{Operation: "initialize", StatusCode: 503, Retryable: true}
			},
		}
		router := bookingRouter(NewBookingHandler(svc))

		w := postJSON(router, "/api/bookings/paystack-payment", gin.H{"bookingId": "booking-1"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}

func TestBookingHandler_GetUserBookings(t *testing.T) {
	booking, err := domain.NewBooking("room-1", "user-1", "hotel-1",
		mustDay("2026-09-01"), mustDay("2026-09-04"), 2, domain.PaymentMethodPayAtHotel, 100, "GHS")
	require.NoError(t, err)

	svc := &mockBookingService{
		GetUserBookingsFunc: func(ctx context.Context, userID string) ([]*domain.Booking, error) {
			assert.Equal(t, "user-1", userID)
			return []*domain.Booking{booking}, nil
		},
	}
	router := bookingRouter(NewBookingHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
