package dto

import "encoding/json"

// WebhookEvent is the envelope Paystack posts to the webhook endpoint.
// Data is kept raw so the signature check can run over exact bytes and
// only the events we act on get decoded further.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChargeData is the subset of the charge payload the reconciler reads
type ChargeData struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}
