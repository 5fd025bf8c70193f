package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/pkg/logger"
)

const (
	// IdempotencyHeader lets clients retry mutating requests safely
	IdempotencyHeader = "X-Idempotency-Key"

	idempotencyKeyPrefix = "idempotency:"
	idempotencyTTL       = 24 * time.Hour
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for requests that repeat an
// X-Idempotency-Key. Requests without the header pass through untouched,
// and Redis failures fail open so the store never takes the API down.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	log := logger.Get()

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		storeKey := idempotencyKeyPrefix + c.Request.Method + ":" + c.FullPath() + ":" + key

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		raw, err := client.Get(ctx, storeKey).Bytes()
		cancel()
		if err == nil {
			var cached cachedResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			log.Warn("idempotency lookup failed, continuing without cache",
				zap.String("key", key),
				zap.Error(err),
			)
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		// Only definitive outcomes are cached; 5xx responses may be retried
		status := capture.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		entry, err := json.Marshal(cachedResponse{
			Status:      status,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.buf.Bytes(),
		})
		if err != nil {
			return
		}

		storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer storeCancel()
		if err := client.Set(storeCtx, storeKey, entry, idempotencyTTL).Err(); err != nil {
			log.Warn("failed to store idempotent response",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}
