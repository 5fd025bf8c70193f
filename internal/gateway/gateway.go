// Package gateway integrates with the payment provider's transaction API.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Transaction statuses reported by the provider
const (
	TxnStatusSuccess   = "success"
	TxnStatusFailed    = "failed"
	TxnStatusAbandoned = "abandoned"
)

// InitializeResult is the outcome of starting a hosted checkout
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the provider's authoritative view of a transaction.
// Amount is in minor currency units.
type VerifyResult struct {
	Reference string
	Status    string
	Amount    int64
	Currency  string
}

// Succeeded reports whether the provider settled the charge
func (v *VerifyResult) Succeeded() bool {
	return v.Status == TxnStatusSuccess
}

// PaymentGateway abstracts the payment provider so services and tests do
// not depend on the HTTP client.
type PaymentGateway interface {
	// InitializeTransaction starts a hosted checkout for the given amount
	// in minor units, bound to the supplied reference.
	InitializeTransaction(ctx context.Context, email string, amountMinor int64, currency, reference, callbackURL string) (*InitializeResult, error)

	// VerifyTransaction fetches the provider's record for the reference
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error)
}

// GatewayError wraps a provider-side failure. Retryable distinguishes
// transport faults and 5xx responses from definitive rejections.
type GatewayError struct {
	Operation  string
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s failed: status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway %s failed: %s", e.Operation, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsRetryableGatewayError reports whether err is a gateway fault worth
// retrying, such as a timeout or a provider 5xx.
func IsRetryableGatewayError(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable
	}
	return false
}
