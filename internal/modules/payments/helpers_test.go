package payments

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/orders"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&orders.Order{},
		&orders.OrderItem{},
		&orders.TransactionLog{},
		&Transaction{},
		&ProviderEvent{},
	))
	return db
}

// stubProvider stands in for the gateway so service tests control the
// remote behaviour.
type stubProvider struct {
	lastReq   CreateOrderRequest
	resp      CreateOrderResponse
	createErr error

	validOrderID   string
	validPaymentID string
	validSig       string
}

func (p *stubProvider) Name() string  { return "stub" }
func (p *stubProvider) KeyID() string { return "rzp_test_key" }

func (p *stubProvider) CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error) {
	p.lastReq = req
	if p.createErr != nil {
		return CreateOrderResponse{}, p.createErr
	}
	resp := p.resp
	if resp.ProviderOrderID == "" {
		resp = CreateOrderResponse{ProviderOrderID: "order_stub1", AmountMinor: req.AmountMinor, Currency: req.Currency}
	}
	return resp, nil
}

func (p *stubProvider) VerifyPaymentSignature(providerOrderID, providerPaymentID, signature string) bool {
	return providerOrderID == p.validOrderID &&
		providerPaymentID == p.validPaymentID &&
		signature == p.validSig
}

func (p *stubProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return signature == p.validSig
}
