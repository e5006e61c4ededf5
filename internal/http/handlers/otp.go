package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/otp"
	"dineezy.in/app/internal/shared/apperr"
)

type OTPHandler struct {
	Logger *slog.Logger
	Svc    *otp.VerificationService
}

func NewOTPHandler(logger *slog.Logger, svc *otp.VerificationService) *OTPHandler {
	return &OTPHandler{Logger: logger, Svc: svc}
}

type sendOTPBody struct {
	Phone string `json:"phone" binding:"required,e164"`
}

// POST /api/otp/send
func (h *OTPHandler) Send(c *gin.Context) {
	var body sendOTPBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.Svc.Start(c.Request.Context(), body.Phone); err != nil {
		if errors.Is(err, otp.ErrRateLimited) {
			middleware.Fail(c, apperr.ConflictErr("Too many attempts. Try again in a few minutes."))
			return
		}
		// gateway detail stays in the logs
		h.Logger.Error("otp send failed", "err", err)
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type verifyOTPBody struct {
	Phone string `json:"phone" binding:"required,e164"`
	Code  string `json:"code" binding:"required,len=6"`
}

// POST /api/otp/verify
func (h *OTPHandler) Verify(c *gin.Context) {
	var body verifyOTPBody
	if !bindJSON(c, &body) {
		return
	}

	if err := h.Svc.Verify(c.Request.Context(), body.Phone, body.Code); err != nil {
		switch {
		case errors.Is(err, otp.ErrCodeInvalid):
			middleware.Fail(c, apperr.InvalidErr("Invalid or expired code.", nil))
		case errors.Is(err, otp.ErrTooManyGuesses):
			middleware.Fail(c, apperr.ConflictErr("Too many attempts. Request a new code."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})
}
