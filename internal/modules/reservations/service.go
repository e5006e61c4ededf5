package reservations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

type CreateInput struct {
	RestaurantID string
	Name         string
	Phone        string
	Email        string
	PartySize    int
	ReservedFor  time.Time
	Notes        string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Reservation, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return Reservation{}, ErrInvalidInput
	}
	if in.PartySize < 1 || in.PartySize > 20 {
		return Reservation{}, ErrInvalidInput
	}
	if in.ReservedFor.Before(time.Now()) {
		return Reservation{}, ErrInvalidInput
	}

	now := time.Now()
	var email *string
	if e := strings.TrimSpace(in.Email); e != "" {
		email = &e
	}
	var notes *string
	if n := strings.TrimSpace(in.Notes); n != "" {
		notes = &n
	}

	r := Reservation{
		ID:            uuid.NewString(),
		RestaurantID:  in.RestaurantID,
		CustomerName:  strings.TrimSpace(in.Name),
		CustomerPhone: strings.TrimSpace(in.Phone),
		CustomerEmail: email,
		PartySize:     in.PartySize,
		ReservedFor:   in.ReservedFor,
		Status:        StatusPending,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return Reservation{}, err
	}
	return r, nil
}

type TransitionInput struct {
	ReservationID string
	ActorAdminID  string
	Action        string // confirm|seat|complete|cancel
	Note          string
}

func (s *Service) Transition(ctx context.Context, in TransitionInput) error {
	if in.ReservationID == "" || in.ActorAdminID == "" || in.Action == "" {
		return ErrInvalidInput
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r Reservation
		if err := tx.WithContext(ctx).First(&r, "id = ?", in.ReservationID).Error; err != nil {
			return err
		}

		from := r.Status
		to, err := nextStatus(from, in.Action)
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.WithContext(ctx).Model(&Reservation{}).
			Where("id = ? AND status = ?", r.ID, from). // optimistic guard
			Updates(map[string]any{"status": to, "updated_at": now})
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
		ev := ReservationEvent{
			ID:            uuid.NewString(),
			ReservationID: r.ID,
			ActorAdminID:  in.ActorAdminID,
			Action:        in.Action,
			FromStatus:    from,
			ToStatus:      to,
			Note:          notePtr,
			CreatedAt:     now,
		}
		return tx.WithContext(ctx).Create(&ev).Error
	})
}

func nextStatus(from, action string) (string, error) {
	switch action {
	case "confirm":
		if from == StatusPending {
			return StatusConfirmed, nil
		}
	case "seat":
		if from == StatusConfirmed {
			return StatusSeated, nil
		}
	case "complete":
		if from == StatusSeated {
			return StatusCompleted, nil
		}
	case "cancel":
		if from == StatusPending || from == StatusConfirmed {
			return StatusCancelled, nil
		}
	}
	return "", ErrInvalidTransition
}

// AssignTable binds a reservation to a table after checking capacity and
// overlapping reservations within the slot window.
func (s *Service) AssignTable(ctx context.Context, reservationID, tableID string) error {
	if reservationID == "" || tableID == "" {
		return ErrInvalidInput
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r Reservation
		if err := tx.WithContext(ctx).First(&r, "id = ?", reservationID).Error; err != nil {
			return err
		}
		var t Table
		if err := tx.WithContext(ctx).First(&t, "id = ? AND active = ?", tableID, true).Error; err != nil {
			return err
		}
		if t.Capacity < r.PartySize {
			return ErrTableTooSmall
		}

		windowStart := r.ReservedFor.Add(-SlotDuration)
		windowEnd := r.ReservedFor.Add(SlotDuration)

		var clash int64
		if err := tx.WithContext(ctx).Model(&Reservation{}).
			Where("table_id = ? AND id <> ? AND status IN ? AND reserved_for > ? AND reserved_for < ?",
				tableID, r.ID, []string{StatusConfirmed, StatusSeated}, windowStart, windowEnd).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return ErrTableUnavailable
		}

		return tx.WithContext(ctx).Model(&Reservation{}).
			Where("id = ?", r.ID).
			Updates(map[string]any{"table_id": tableID, "updated_at": time.Now()}).Error
	})
}
