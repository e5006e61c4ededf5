// mockwebhook sends a signed, Razorpay-shaped webhook event to a local
// server for manual testing.
package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

type paymentEntity struct {
	ID               string            `json:"id"`
	OrderID          string            `json:"order_id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Method           string            `json:"method"`
	Status           string            `json:"status"`
	ErrorCode        string            `json:"error_code,omitempty"`
	ErrorDescription string            `json:"error_description,omitempty"`
	Notes            map[string]string `json:"notes"`
}

type envelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/razorpay", "Webhook URL")
	secret := flag.String("secret", os.Getenv("RAZORPAY_WEBHOOK_SECRET"), "Webhook secret")
	eventID := flag.String("event-id", "evt_"+randomHex(8), "Event ID header value")
	eventType := flag.String("type", "payment.captured", "Event type (payment.captured, payment.failed, order.paid)")
	orderID := flag.String("order-id", "", "Local order id placed in payment notes")
	providerOrder := flag.String("provider-order", "order_"+randomHex(8), "Provider order id")
	paymentID := flag.String("payment-id", "pay_"+randomHex(8), "Provider payment id")
	amount := flag.Int64("amount", 50000, "Amount in minor units (paise)")
	currency := flag.String("currency", "INR", "Currency")
	errCode := flag.String("error-code", "", "Error code (for payment.failed)")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and RAZORPAY_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}

	var env envelope
	env.Event = *eventType
	env.Payload.Payment.Entity = paymentEntity{
		ID:       *paymentID,
		OrderID:  *providerOrder,
		Amount:   *amount,
		Currency: *currency,
		Method:   "upi",
		Status:   "captured",
		Notes:    map[string]string{},
	}
	if *orderID != "" {
		env.Payload.Payment.Entity.Notes["orderId"] = *orderID
	}
	if *eventType == "payment.failed" {
		env.Payload.Payment.Entity.Status = "failed"
		env.Payload.Payment.Entity.ErrorCode = *errCode
		env.Payload.Payment.Entity.ErrorDescription = "mock failure"
	}

	body, err := json.Marshal(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	mac := hmac.New(sha256.New, []byte(*secret))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	fmt.Printf("X-Razorpay-Signature: %s\n", sig)
	fmt.Printf("X-Razorpay-Event-Id: %s\n", *eventID)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest("POST", *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Razorpay-Signature", sig)
	req.Header.Set("X-Razorpay-Event-Id", *eventID)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	fmt.Printf("Response: %d %s\n", res.StatusCode, string(respBody))
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
