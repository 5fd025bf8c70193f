package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *PaystackGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewPaystackGateway(&PaystackConfig{
		BaseURL:        server.URL,
		SecretKey:      "sk_test_secret",
		RequestTimeout: 5 * time.Second,
	})
}

func TestPaystackGateway_InitializeTransaction(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "guest@example.com", payload["email"])
		assert.Equal(t, float64(30000), payload["amount"])
		assert.Equal(t, "ref-1", payload["reference"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "ref-1"
			}
		}`))
	})

	result, err := gw.InitializeTransaction(context.Background(), "guest@example.com", 30000, "GHS", "ref-1", "https://app.example.com/loader")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "abc123", result.AccessCode)
	assert.Equal(t, "ref-1", result.Reference)
}

func TestPaystackGateway_VerifyTransaction(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ref-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"reference": "ref-1",
				"status": "success",
				"amount": 30000,
				"currency": "GHS"
			}
		}`))
	})

	result, err := gw.VerifyTransaction(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, int64(30000), result.Amount)
	assert.Equal(t, "GHS", result.Currency)
}

func TestPaystackGateway_VerifyFailedCharge(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {"reference": "ref-1", "status": "failed", "amount": 30000, "currency": "GHS"}
		}`))
	})

	result, err := gw.VerifyTransaction(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, TxnStatusFailed, result.Status)
}

func TestPaystackGateway_APIRejection(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	})

	_, err := gw.InitializeTransaction(context.Background(), "guest@example.com", 30000, "GHS", "ref-1", "")
	require.Error(t, err)
	assert.False(t, IsRetryableGatewayError(err))

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode)
	assert.Equal(t, "Invalid key", ge.Message)
}

func TestPaystackGateway_ServerErrorIsRetryable(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"status": false, "message": "upstream error"}`))
	})

	_, err := gw.VerifyTransaction(context.Background(), "ref-1")
	require.Error(t, err)
	assert.True(t, IsRetryableGatewayError(err))
}

func TestPaystackGateway_TransportFailureIsRetryable(t *testing.T) {
	gw := NewPaystackGateway(&PaystackConfig{
		BaseURL:        "http://127.0.0.1:1",
		SecretKey:      "sk_test_secret",
		RequestTimeout: time.Second,
	})

	_, err := gw.VerifyTransaction(context.Background(), "ref-1")
	require.Error(t, err)
	assert.True(t, IsRetryableGatewayError(err))
}
