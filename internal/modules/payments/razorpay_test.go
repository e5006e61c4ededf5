package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signHex(secret string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	p := NewRazorpayProvider(RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret123",
	})

	orderID := "order_abc"
	paymentID := "pay_def"
	sig := signHex("secret123", []byte(orderID+"|"+paymentID))

	assert.True(t, p.VerifyPaymentSignature(orderID, paymentID, sig))

	// flipping a single character must fail
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, p.VerifyPaymentSignature(orderID, paymentID, string(mutated)))

	assert.False(t, p.VerifyPaymentSignature(orderID, paymentID, ""))
	assert.False(t, p.VerifyPaymentSignature("order_other", paymentID, sig))
	assert.False(t, p.VerifyPaymentSignature(orderID, "pay_other", sig))
}

func TestVerifyPaymentSignatureWrongSecret(t *testing.T) {
	p := NewRazorpayProvider(RazorpayConfig{KeyID: "k", KeySecret: "secret123"})

	sig := signHex("othersecret", []byte("order_abc|pay_def"))
	assert.False(t, p.VerifyPaymentSignature("order_abc", "pay_def", sig))
}

func TestVerifyWebhookSignature(t *testing.T) {
	p := NewRazorpayProvider(RazorpayConfig{
		KeyID:         "rzp_test_key",
		KeySecret:     "secret123",
		WebhookSecret: "whsec456",
	})

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	sig := signHex("whsec456", body)

	assert.True(t, p.VerifyWebhookSignature(body, sig))
	assert.False(t, p.VerifyWebhookSignature(body, ""))
	assert.False(t, p.VerifyWebhookSignature(body, signHex("wrong", body)))

	// signature binds the exact bytes
	assert.False(t, p.VerifyWebhookSignature(append(body, ' '), sig))
}
