package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/menu"
)

type Service struct {
	db   *gorm.DB
	menu *menu.Repo
}

func NewService(db *gorm.DB, menuRepo *menu.Repo) *Service {
	return &Service{db: db, menu: menuRepo}
}

type CreateItemInput struct {
	MenuItemID string
	Quantity   int
}

type CreateInput struct {
	RestaurantID  string
	FirstName     string
	LastName      string
	Phone         string
	Email         string
	PaymentMethod string
	ReservationID string
	Items         []CreateItemInput
}

type CreateResult struct {
	Order Order
	Items []OrderItem
}

// Create validates the submitted cart against the menu, prices it
// server-side and persists the order. Client-supplied prices are ignored.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	if len(in.Items) == 0 {
		return CreateResult{}, ErrEmptyOrder
	}

	method := strings.TrimSpace(in.PaymentMethod)
	switch method {
	case MethodOnline, MethodCash, MethodPayLater:
	default:
		return CreateResult{}, ErrInvalidMethod
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return CreateResult{}, fmt.Errorf("%w: quantity %d", ErrItemUnavailable, it.Quantity)
		}
		ids = append(ids, it.MenuItemID)
	}

	menuItems, err := s.menu.GetItems(ctx, ids)
	if err != nil {
		return CreateResult{}, err
	}

	now := time.Now()
	orderID := uuid.NewString()

	var total float64
	items := make([]OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		mi, ok := menuItems[it.MenuItemID]
		if !ok || !mi.Available {
			return CreateResult{}, fmt.Errorf("%w: %s", ErrItemUnavailable, it.MenuItemID)
		}
		line := round2(mi.Price * float64(it.Quantity))
		total += line
		items = append(items, OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			MenuItemID: mi.ID,
			Name:       mi.Name,
			UnitPrice:  mi.Price,
			Quantity:   it.Quantity,
			LineTotal:  line,
			CreatedAt:  now,
		})
	}
	total = round2(total)

	// Online orders wait for payment; cash/pay-later confirm right away.
	status := StatusPending
	if method != MethodOnline {
		status = StatusConfirmed
	}

	var email *string
	if e := strings.TrimSpace(in.Email); e != "" {
		email = &e
	}
	var reservationID *string
	if rid := strings.TrimSpace(in.ReservationID); rid != "" {
		reservationID = &rid
	}

	o := Order{
		ID:                orderID,
		RestaurantID:      in.RestaurantID,
		CustomerFirstName: strings.TrimSpace(in.FirstName),
		CustomerLastName:  strings.TrimSpace(in.LastName),
		CustomerPhone:     strings.TrimSpace(in.Phone),
		CustomerEmail:     email,
		TotalAmount:       total,
		Currency:          "INR",
		PaymentMethod:     method,
		Status:            status,
		PaymentStatus:     PaymentPending,
		ReservationID:     reservationID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&o).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
		entry := TransactionLog{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Type:      "order_created",
			Amount:    total,
			CreatedAt: now,
		}
		return tx.WithContext(ctx).Create(&entry).Error
	})
	if err != nil {
		return CreateResult{}, err
	}

	return CreateResult{Order: o, Items: items}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
