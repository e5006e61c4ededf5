package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService { return &AdminService{db: db} }

type TransitionInput struct {
	OrderID      string
	ActorAdminID string
	Action       string // accept|prepare|ready|complete|cancel
	Note         string
}

// Transition applies one admin action to an order with an optimistic
// status guard, and appends an audit log entry.
func (s *AdminService) Transition(ctx context.Context, in TransitionInput) error {
	if in.OrderID == "" || in.ActorAdminID == "" || in.Action == "" {
		return ErrInvalidTransition
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.WithContext(ctx).First(&o, "id = ?", in.OrderID).Error; err != nil {
			return err
		}

		from := o.Status
		to, err := nextStatus(from, in.Action)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"status":     to,
			"updated_at": now,
		}
		if to == StatusCancelled {
			reason := strings.TrimSpace(in.Note)
			if reason == "" {
				reason = "cancelled by staff"
			}
			updates["cancel_reason"] = reason
			updates["cancelled_at"] = now
		}

		res := tx.WithContext(ctx).Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, from). // optimistic guard
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		var notePtr *string
		if n := strings.TrimSpace(in.Note); n != "" {
			notePtr = &n
		}
		entry := TransactionLog{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Type:      "status_" + to,
			Note:      notePtr,
			CreatedAt: now,
		}
		return tx.WithContext(ctx).Create(&entry).Error
	})
}

func nextStatus(from, action string) (string, error) {
	switch action {
	case "accept":
		if from == StatusPending {
			return StatusConfirmed, nil
		}
	case "prepare":
		if from == StatusConfirmed {
			return StatusPreparing, nil
		}
	case "ready":
		if from == StatusPreparing {
			return StatusReady, nil
		}
	case "complete":
		if from == StatusReady || from == StatusConfirmed {
			return StatusCompleted, nil
		}
	case "cancel":
		if from == StatusPending || from == StatusConfirmed {
			return StatusCancelled, nil
		}
	}
	return "", ErrInvalidTransition
}
