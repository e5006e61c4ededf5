package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/modules/payments"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Provider   payments.Provider
	WebhookSvc *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, p payments.Provider, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Provider: p, WebhookSvc: svc}
}

// POST /webhooks/razorpay
// The HMAC must be computed over the raw body; nothing is parsed before
// the signature checks out.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}

	sig := c.GetHeader("X-Razorpay-Signature")
	if !h.Provider.VerifyWebhookSignature(body, sig) {
		h.Logger.Warn("webhook signature rejected", "provider", h.Provider.Name())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signature"})
		return
	}

	eventID := c.GetHeader("X-Razorpay-Event-Id")
	if err := h.WebhookSvc.Handle(c.Request.Context(), h.Provider.Name(), eventID, body); err != nil {
		// 500 so the provider redelivers
		h.Logger.Error("webhook apply failed", "event_id", eventID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
