package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

func NewRazorpayProvider(cfg RazorpayConfig) *RazorpayProvider {
	return &RazorpayProvider{
		client:        razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (p *RazorpayProvider) Name() string  { return "razorpay" }
func (p *RazorpayProvider) KeyID() string { return p.keyID }

func (p *RazorpayProvider) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := p.client.Order.Create(data, nil)
	if err != nil {
		return CreateOrderResponse{}, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return CreateOrderResponse{}, fmt.Errorf("razorpay order create: missing id in response")
	}

	resp := CreateOrderResponse{
		ProviderOrderID: id,
		AmountMinor:     req.AmountMinor,
		Currency:        req.Currency,
	}
	if amt, ok := body["amount"].(float64); ok {
		resp.AmountMinor = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		resp.Currency = cur
	}
	return resp, nil
}

// VerifyPaymentSignature recomputes HMAC-SHA256(secret, orderID|paymentID)
// and compares in constant time.
func (p *RazorpayProvider) VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool {
	expected := hmacHex([]byte(p.keySecret), []byte(providerOrderID+"|"+providerPaymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (p *RazorpayProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := hmacHex([]byte(p.webhookSecret), body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hmacHex(key, msg []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}
