package orders

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const cancelReasonStale = "auto-cancelled: payment not completed within 30 minutes"

// Sweeper cancels pending orders that never completed payment.
// Reservation-linked orders are exempt: the guest may pay at the table.
type Sweeper struct {
	db     *gorm.DB
	logger *slog.Logger
	maxAge time.Duration
}

func NewSweeper(db *gorm.DB, logger *slog.Logger, maxAge time.Duration) *Sweeper {
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	return &Sweeper{db: db, logger: logger, maxAge: maxAge}
}

type SweepResult struct {
	CancelledCount  int      `json:"cancelledCount"`
	CancelledOrders []string `json:"cancelledOrders"`
}

// CancelStale scans for pending, non-reservation orders older than maxAge
// and cancels them one by one. Each update is guarded on status so a
// concurrent sweep (or a payment racing in) makes the cancel a no-op.
// On failure the partial result is returned alongside the error; orders
// already cancelled stay cancelled.
func (s *Sweeper) CancelStale(ctx context.Context) (SweepResult, error) {
	cutoff := time.Now().Add(-s.maxAge)

	var stale []Order
	if err := s.db.WithContext(ctx).
		Select("id").
		Where("status = ? AND created_at < ? AND reservation_id IS NULL", StatusPending, cutoff).
		Find(&stale).Error; err != nil {
		return SweepResult{}, err
	}

	res := SweepResult{CancelledOrders: []string{}}
	for _, o := range stale {
		now := time.Now()
		reason := cancelReasonStale

		tx := s.db.WithContext(ctx).Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, StatusPending).
			Updates(map[string]any{
				"status":        StatusCancelled,
				"cancel_reason": reason,
				"cancelled_at":  now,
				"updated_at":    now,
			})
		if tx.Error != nil {
			return res, tx.Error
		}
		if tx.RowsAffected == 0 {
			// status changed under us, skip
			continue
		}

		entry := TransactionLog{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Type:      "order_cancelled",
			Note:      &reason,
			CreatedAt: now,
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			// order is cancelled either way; log entry is best effort
			s.logger.WarnContext(ctx, "sweep log entry failed", "order_id", o.ID, "err", err)
		}

		res.CancelledCount++
		res.CancelledOrders = append(res.CancelledOrders, o.ID)
	}

	if res.CancelledCount > 0 {
		s.logger.InfoContext(ctx, "stale orders cancelled", "count", res.CancelledCount)
	}
	return res, nil
}

// Run invokes CancelStale on a fixed interval until ctx is cancelled.
// The scheduled run and the HTTP triggers share the exact same logic.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.CancelStale(ctx); err != nil {
				s.logger.ErrorContext(ctx, "stale order sweep failed", "err", err)
			}
		}
	}
}
