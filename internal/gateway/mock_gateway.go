package gateway

import "context"

// MockGateway is a func-field test double for PaymentGateway
type MockGateway struct {
	InitializeTransactionFunc func(ctx context.Context, email string, amountMinor int64, currency, reference, callbackURL string) (*InitializeResult, error)
	VerifyTransactionFunc     func(ctx context.Context, reference string) (*VerifyResult, error)
}

func (m *MockGateway) InitializeTransaction(ctx context.Context, email string, amountMinor int64, currency, reference, callbackURL string) (*InitializeResult, error) {
	if m.InitializeTransactionFunc != nil {
		return m.InitializeTransactionFunc(ctx, email, amountMinor, currency, reference, callbackURL)
	}
	return &InitializeResult{
		AuthorizationURL: "https://checkout.example.com/" + reference,
		AccessCode:       "access_" + reference,
		Reference:        reference,
	}, nil
}

func (m *MockGateway) VerifyTransaction(ctx context.Context, reference string) (*VerifyResult, error) {
	if m.VerifyTransactionFunc != nil {
		return m.VerifyTransactionFunc(ctx, reference)
	}
	return &VerifyResult{
		Reference: reference,
		Status:    TxnStatusSuccess,
	}, nil
}
