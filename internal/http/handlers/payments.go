package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/modules/payments"
	"dineezy.in/app/internal/shared/apperr"
)

type PaymentsHandler struct {
	Logger *slog.Logger
	Svc    *payments.Service
}

func NewPaymentsHandler(logger *slog.Logger, svc *payments.Service) *PaymentsHandler {
	return &PaymentsHandler{Logger: logger, Svc: svc}
}

type customerInfoBody struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type createPaymentOrderBody struct {
	Amount       float64          `json:"amount" binding:"required,gt=0"`
	Currency     string           `json:"currency"`
	OrderID      string           `json:"orderId" binding:"required"`
	CustomerInfo customerInfoBody `json:"customerInfo" binding:"required"`
}

// POST /api/payment/order
// Creates one remote payment order per call; retries mint duplicates.
func (h *PaymentsHandler) CreateOrder(c *gin.Context) {
	var body createPaymentOrderBody
	if !bindJSON(c, &body) {
		return
	}

	res, err := h.Svc.CreateOrder(c.Request.Context(), payments.CreateOrderInput{
		Amount:   body.Amount,
		Currency: body.Currency,
		OrderID:  body.OrderID,
		CustomerInfo: payments.CustomerInfo{
			FirstName: body.CustomerInfo.FirstName,
			LastName:  body.CustomerInfo.LastName,
			Phone:     body.CustomerInfo.Phone,
			Email:     body.CustomerInfo.Email,
		},
	})
	if err != nil {
		if errors.Is(err, payments.ErrValidation) {
			middleware.Fail(c, apperr.InvalidErr("Missing required fields.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"orderId":  res.ProviderOrderID,
		"amount":   res.AmountMinor,
		"currency": res.Currency,
		"key":      res.KeyID,
	})
}

type paymentDetailsBody struct {
	Amount       float64          `json:"amount" binding:"required,gt=0"`
	Currency     string           `json:"currency"`
	Method       string           `json:"method"`
	RestaurantID string           `json:"restaurantId"`
	CustomerInfo customerInfoBody `json:"customerInfo"`
}

type verifyPaymentBody struct {
	RazorpayOrderID   string             `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string             `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string             `json:"razorpay_signature" binding:"required"`
	OrderID           string             `json:"orderId" binding:"required"`
	PaymentDetails    paymentDetailsBody `json:"paymentDetails" binding:"required"`
}

// POST /api/payment/verify
func (h *PaymentsHandler) Verify(c *gin.Context) {
	var body verifyPaymentBody
	if !bindJSON(c, &body) {
		return
	}

	res, err := h.Svc.VerifyPayment(c.Request.Context(), payments.VerifyInput{
		ProviderOrderID:   body.RazorpayOrderID,
		ProviderPaymentID: body.RazorpayPaymentID,
		Signature:         body.RazorpaySignature,
		OrderID:           body.OrderID,
		RestaurantID:      body.PaymentDetails.RestaurantID,
		Amount:            body.PaymentDetails.Amount,
		Currency:          body.PaymentDetails.Currency,
		CustomerInfo: payments.CustomerInfo{
			FirstName: body.PaymentDetails.CustomerInfo.FirstName,
			LastName:  body.PaymentDetails.CustomerInfo.LastName,
			Phone:     body.PaymentDetails.CustomerInfo.Phone,
			Email:     body.PaymentDetails.CustomerInfo.Email,
		},
	})
	if err != nil {
		if errors.Is(err, payments.ErrVerificationFailed) {
			middleware.Fail(c, apperr.InvalidErr("Payment verification failed", nil))
			return
		}
		if errors.Is(err, payments.ErrValidation) {
			middleware.Fail(c, apperr.InvalidErr("Missing required fields.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Payment verified successfully",
		"paymentId":     res.ProviderPaymentID,
		"transactionId": res.TransactionID,
	})
}
