package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

// PaystackConfig holds Paystack API client configuration
type PaystackConfig struct {
	BaseURL        string
	SecretKey      string
	RequestTimeout time.Duration
}

// PaystackGateway talks to the Paystack transaction API
type PaystackGateway struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackGateway creates a Paystack API client
func NewPaystackGateway(cfg *PaystackConfig) *PaystackGateway {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaystackGateway{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiResponse is Paystack's envelope. Status is the API call outcome, not
// the transaction state.
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

func (g *PaystackGateway) InitializeTransaction(ctx context.Context, email string, amountMinor int64, currency, reference, callbackURL string) (*InitializeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "gateway.paystack.initialize")
	defer span.End()
	span.SetAttributes(attribute.String("payment.reference", reference))

	payload := map[string]interface{}{
		"email":     email,
		"amount":    amountMinor,
		"currency":  currency,
		"reference": reference,
	}
	if callbackURL != "" {
		payload["callback_url"] = callbackURL
	}

	body, err := g.post(ctx, "initialize", "/transaction/initialize", payload)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &GatewayError{
			Operation: "initialize",
			Message:   "malformed response data",
			Err:       err,
		}
	}

	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (g *PaystackGateway) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "gateway.paystack.verify")
	defer span.End()
	span.SetAttributes(attribute.String("payment.reference", reference))

	body, err := g.get(ctx, "verify", "/transaction/verify/"+url.PathEscape(reference))
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &GatewayError{
			Operation: "verify",
			Message:   "malformed response data",
			Err:       err,
		}
	}

	return &VerifyResult{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    data.Amount,
		Currency:  data.Currency,
	}, nil
}

func (g *PaystackGateway) post(ctx context.Context, operation, path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return g.do(req, operation)
}

func (g *PaystackGateway) get(ctx context.Context, operation, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.config.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return g.do(req, operation)
}

func (g *PaystackGateway) do(req *http.Request, operation string) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+g.config.SecretKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{
			Operation: operation,
			Message:   "request failed",
			Retryable: true,
			Err:       err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &GatewayError{
			Operation: operation,
			Message:   "failed to read response",
			Retryable: true,
			Err:       err,
		}
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &GatewayError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Retryable:  resp.StatusCode >= 500,
			Err:        err,
		}
	}

	if resp.StatusCode >= 400 || !envelope.Status {
		return nil, &GatewayError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
			Retryable:  resp.StatusCode >= 500,
		}
	}

	return envelope.Data, nil
}
