package payments

import "context"

type CreateOrderRequest struct {
	AmountMinor int64 // smallest currency unit (paise)
	Currency    string
	Receipt     string // local order id, for audit traceability
	Notes       map[string]string
}

type CreateOrderResponse struct {
	ProviderOrderID string
	AmountMinor     int64
	Currency        string
}

// Provider is the payment gateway boundary. The signature checks take the
// raw inputs so they can be verified before anything is parsed or persisted.
type Provider interface {
	Name() string

	// KeyID is the public client key, safe to hand to the browser.
	// The signing secret never leaves the adapter.
	KeyID() string

	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error)

	// VerifyPaymentSignature checks the checkout completion triple.
	VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool

	// VerifyWebhookSignature checks the signature header against the raw,
	// unparsed request body.
	VerifyWebhookSignature(body []byte, signature string) bool
}
