package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/dto"
	"github.com/quickstay/backend-hotel/internal/gateway"
	"github.com/quickstay/backend-hotel/internal/metrics"
	"github.com/quickstay/backend-hotel/internal/service"
	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/response"
)

const (
	signatureHeader = "x-paystack-signature"

	webhookBodyLimit = 1 << 20
	webhookDedupTTL  = 24 * time.Hour
	dedupKeyPrefix   = "webhook:dedup:"
)

// WebhookHandler reconciles Paystack webhook deliveries against bookings
type WebhookHandler struct {
	service service.BookingService
	redis   *redis.Client
	secret  string
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
}

// NewWebhookHandler creates a webhook handler. redisClient may be nil, in
// which case duplicate deliveries are not filtered and every event is
// processed; processing itself is idempotent.
func NewWebhookHandler(svc service.BookingService, redisClient *redis.Client, secret string) *WebhookHandler {
	return &WebhookHandler{
		service: svc,
		redis:   redisClient,
		secret:  secret,
		metrics: metrics.NewBookingMetrics(),
		logger:  logger.Get(),
	}
}

// HandlePaystackWebhook handles POST /api/bookings/paystack-webhook.
//
// Non-2xx responses make the provider retry delivery, so only signature
// failures and malformed payloads get a terminal 4xx. Everything the
// service cannot currently resolve returns 5xx and is retried.
func (h *WebhookHandler) HandlePaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		h.metrics.WebhooksRejected.Inc(c.Request.Context())
		h.logger.Warn("webhook signature verification failed",
			zap.String("remote_addr", c.ClientIP()),
		)
		response.BadRequest(c, "invalid signature")
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.BadRequest(c, "malformed event payload")
		return
	}

	h.metrics.WebhooksReceived.Inc(c.Request.Context())

	switch event.Event {
	case "charge.success", "charge.failed":
		charge, err := h.chargeData(&event)
		if err != nil {
			response.BadRequest(c, "malformed charge data")
			return
		}

		dedupKey, firstDelivery := h.claimDelivery(c.Request.Context(), event.Event, charge.Reference)
		if !firstDelivery {
			h.metrics.WebhooksDuplicate.Inc(c.Request.Context())
			response.OK(c, response.Envelope{"message": "duplicate delivery ignored"})
			return
		}

		if event.Event == "charge.success" {
			h.handleChargeSuccess(c, charge, dedupKey)
		} else {
			h.handleChargeFailed(c, charge)
		}
	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them
		response.OK(c, response.Envelope{"message": "event ignored"})
	}
}

func (h *WebhookHandler) handleChargeSuccess(c *gin.Context, charge *dto.ChargeData, dedupKey string) {
	booking, err := h.service.HandleChargeSuccess(c.Request.Context(), charge.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			// Not a booking this service knows; retrying will not help
			h.logger.Warn("webhook for unknown payment reference",
				zap.String("payment_reference", charge.Reference),
			)
			response.OK(c, response.Envelope{"message": "unknown reference ignored"})
			return
		}

		// Processing failed; release the dedup claim so the provider's
		// retry is not swallowed as a duplicate
		h.releaseDelivery(dedupKey)

		if gateway.IsRetryableGatewayError(err) {
			response.Error(c, http.StatusBadGateway, "verification temporarily unavailable")
			return
		}
		h.logger.Error("failed to process charge.success",
			zap.String("payment_reference", charge.Reference),
			zap.Error(err),
		)
		response.InternalError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"message":       "charge processed",
		"paymentStatus": booking.PaymentStatus,
	})
}

func (h *WebhookHandler) handleChargeFailed(c *gin.Context, charge *dto.ChargeData) {
	// Failure notifications are acknowledged regardless of outcome; the
	// charge is already dead on the provider's side
	if _, err := h.service.HandleChargeFailed(c.Request.Context(), charge.Reference); err != nil && !errors.Is(err, domain.ErrBookingNotFound) {
		h.logger.Error("failed to process charge.failed",
			zap.String("payment_reference", charge.Reference),
			zap.Error(err),
		)
	}

	response.OK(c, response.Envelope{"message": "charge failure recorded"})
}

func (h *WebhookHandler) chargeData(event *dto.WebhookEvent) (*dto.ChargeData, error) {
	var charge dto.ChargeData
	if err := json.Unmarshal(event.Data, &charge); err != nil {
		return nil, err
	}
	if charge.Reference == "" {
		return nil, errors.New("missing reference")
	}
	return &charge, nil
}

// verifySignature checks the HMAC-SHA512 of the exact raw body against the
// provider's signature header using a constant-time comparison.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" {
		// No secret configured; only sensible outside production
		return true
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// dedupKey identifies a delivery by event type and payment reference, so a
// redelivery with cosmetic payload differences still hits the same claim.
func dedupKey(event, reference string) string {
	return dedupKeyPrefix + event + ":" + reference
}

// claimDelivery marks this delivery as seen. Returns false when an earlier
// delivery already claimed it. Fails open: if Redis is down every delivery
// counts as first, and the idempotent transitions absorb the repeats.
func (h *WebhookHandler) claimDelivery(ctx context.Context, event, reference string) (string, bool) {
	if h.redis == nil {
		return "", true
	}

	key := dedupKey(event, reference)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	claimed, err := h.redis.SetNX(ctx, key, 1, webhookDedupTTL).Result()
	if err != nil {
		h.logger.Warn("webhook dedup unavailable, processing anyway", zap.Error(err))
		return "", true
	}
	return key, claimed
}

// releaseDelivery drops a dedup claim after a processing failure so the
// provider's retry gets through.
func (h *WebhookHandler) releaseDelivery(key string) {
	if h.redis == nil || key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.redis.Del(ctx, key).Err(); err != nil {
		h.logger.Warn("failed to release webhook dedup claim", zap.Error(err))
	}
}
