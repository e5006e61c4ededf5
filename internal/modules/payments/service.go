package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/orders"
)

type Service struct {
	db       *gorm.DB
	provider Provider
	logger   *slog.Logger
}

func NewService(db *gorm.DB, p Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, provider: p, logger: logger}
}

type CustomerInfo struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type CreateOrderInput struct {
	Amount       float64 // major currency units
	Currency     string
	OrderID      string
	CustomerInfo CustomerInfo
}

type CreateOrderResult struct {
	ProviderOrderID string
	AmountMinor     int64
	Currency        string
	KeyID           string
}

// CreateOrder creates one remote payment order per call. There is no
// idempotency key: a blind retry mints a second provider order under the
// same local order id.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	if in.Amount <= 0 || strings.TrimSpace(in.OrderID) == "" ||
		strings.TrimSpace(in.CustomerInfo.FirstName) == "" || strings.TrimSpace(in.CustomerInfo.Phone) == "" {
		return CreateOrderResult{}, ErrValidation
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = "INR"
	}

	resp, err := s.provider.CreateOrder(ctx, CreateOrderRequest{
		AmountMinor: int64(math.Round(in.Amount * 100)),
		Currency:    currency,
		Receipt:     in.OrderID,
		Notes: map[string]string{
			"orderId":       in.OrderID,
			"customerName":  strings.TrimSpace(in.CustomerInfo.FirstName + " " + in.CustomerInfo.LastName),
			"customerPhone": in.CustomerInfo.Phone,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "provider order create failed", "order_id", in.OrderID, "err", err)
		return CreateOrderResult{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	return CreateOrderResult{
		ProviderOrderID: resp.ProviderOrderID,
		AmountMinor:     resp.AmountMinor,
		Currency:        resp.Currency,
		KeyID:           s.provider.KeyID(),
	}, nil
}

type VerifyInput struct {
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string

	OrderID      string
	RestaurantID string
	Amount       float64
	Currency     string
	CustomerInfo CustomerInfo
}

type VerifyResult struct {
	TransactionID     string
	ProviderPaymentID string
}

// VerifyPayment checks the completion signature and, only on a match,
// records the transaction and confirms the order. A mismatch writes
// nothing. The method is forced to online: this path is only reachable
// from the hosted checkout.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	if in.ProviderOrderID == "" || in.ProviderPaymentID == "" || in.Signature == "" || in.OrderID == "" {
		return VerifyResult{}, ErrValidation
	}

	if !s.provider.VerifyPaymentSignature(in.ProviderOrderID, in.ProviderPaymentID, in.Signature) {
		s.logger.WarnContext(ctx, "payment signature mismatch", "order_id", in.OrderID, "provider_order_id", in.ProviderOrderID)
		return VerifyResult{}, ErrVerificationFailed
	}

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	fee := FeeForMethod(orders.MethodOnline)
	now := time.Now()

	var email *string
	if e := strings.TrimSpace(in.CustomerInfo.Email); e != "" {
		email = &e
	}

	txn := Transaction{
		ID:                uuid.NewString(),
		OrderID:           in.OrderID,
		RestaurantID:      in.RestaurantID,
		CustomerName:      strings.TrimSpace(in.CustomerInfo.FirstName + " " + in.CustomerInfo.LastName),
		CustomerPhone:     in.CustomerInfo.Phone,
		CustomerEmail:     email,
		Amount:            in.Amount,
		Currency:          currency,
		PaymentMethod:     orders.MethodOnline,
		PaymentStatus:     StatusCompleted,
		ProviderOrderID:   &in.ProviderOrderID,
		ProviderPaymentID: &in.ProviderPaymentID,
		ProviderSignature: &in.Signature,
		ProcessingFee:     fee,
		NetAmount:         in.Amount - fee,
		CreatedAt:         now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&txn).Error; err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]string{
			"provider":            s.provider.Name(),
			"provider_order_id":   in.ProviderOrderID,
			"provider_payment_id": in.ProviderPaymentID,
		})

		// Absolute final-state write; replaying is a safe no-op transition.
		return tx.WithContext(ctx).Model(&orders.Order{}).
			Where("id = ?", in.OrderID).
			Updates(map[string]any{
				"payment_status":  orders.PaymentCompleted,
				"status":          orders.StatusConfirmed,
				"payment_details": details,
				"updated_at":      now,
			}).Error
	})
	if err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{TransactionID: txn.ID, ProviderPaymentID: in.ProviderPaymentID}, nil
}

type RecordOfflineInput struct {
	OrderID      string
	RestaurantID string
	Amount       float64
	Currency     string
	Method       string // cash | pay-later
	CustomerInfo CustomerInfo
	Notes        string
}

// RecordOffline settles a cash or pay-later order: appends the transaction
// (zero fee) and marks the order paid.
func (s *Service) RecordOffline(ctx context.Context, in RecordOfflineInput) (string, error) {
	if in.OrderID == "" || in.Amount <= 0 {
		return "", ErrValidation
	}
	if in.Method != orders.MethodCash && in.Method != orders.MethodPayLater {
		return "", ErrValidation
	}

	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}

	now := time.Now()
	var notes *string
	if n := strings.TrimSpace(in.Notes); n != "" {
		notes = &n
	}
	var email *string
	if e := strings.TrimSpace(in.CustomerInfo.Email); e != "" {
		email = &e
	}

	txn := Transaction{
		ID:            uuid.NewString(),
		OrderID:       in.OrderID,
		RestaurantID:  in.RestaurantID,
		CustomerName:  strings.TrimSpace(in.CustomerInfo.FirstName + " " + in.CustomerInfo.LastName),
		CustomerPhone: in.CustomerInfo.Phone,
		CustomerEmail: email,
		Amount:        in.Amount,
		Currency:      currency,
		PaymentMethod: in.Method,
		PaymentStatus: StatusCompleted,
		ProcessingFee: FeeForMethod(in.Method),
		NetAmount:     in.Amount - FeeForMethod(in.Method),
		Notes:         notes,
		CreatedAt:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&txn).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&orders.Order{}).
			Where("id = ?", in.OrderID).
			Updates(map[string]any{
				"payment_status": orders.PaymentCompleted,
				"updated_at":     now,
			}).Error
	})
	if err != nil {
		return "", err
	}
	return txn.ID, nil
}
