package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/modules/orders"
)

type SweepHandler struct {
	Logger  *slog.Logger
	Sweeper *orders.Sweeper
}

func NewSweepHandler(logger *slog.Logger, sw *orders.Sweeper) *SweepHandler {
	return &SweepHandler{Logger: logger, Sweeper: sw}
}

// Trigger runs one sweep pass. Mounted on both the cron endpoint and the
// manual admin trigger; the trigger source changes nothing.
func (h *SweepHandler) Trigger(c *gin.Context) {
	res, err := h.Sweeper.CancelStale(c.Request.Context())
	if err != nil {
		// partial progress is preserved, report what happened
		h.Logger.Error("sweep failed", "cancelled", res.CancelledCount, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":         false,
			"error":           "sweep failed",
			"cancelledCount":  res.CancelledCount,
			"cancelledOrders": res.CancelledOrders,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"cancelledCount":  res.CancelledCount,
		"cancelledOrders": res.CancelledOrders,
	})
}
