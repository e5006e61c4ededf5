package reservations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, id string) (Reservation, error) {
	var res Reservation
	err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error
	return res, err
}

type ListParams struct {
	RestaurantID string
	Status       string    // optional
	Day          time.Time // optional: filter to this calendar day
	Page         int
	PageSize     int
}

// List powers the admin dashboard reservations view.
func (r *Repo) List(ctx context.Context, in ListParams) ([]Reservation, int64, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 50
	}

	q := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("restaurant_id = ?", in.RestaurantID)
	if status := strings.TrimSpace(in.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if !in.Day.IsZero() {
		dayStart := time.Date(in.Day.Year(), in.Day.Month(), in.Day.Day(), 0, 0, 0, 0, in.Day.Location())
		q = q.Where("reserved_for >= ? AND reserved_for < ?", dayStart, dayStart.Add(24*time.Hour))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Reservation
	err := q.
		Order("reserved_for ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&out).Error
	return out, total, err
}

func (r *Repo) ListTables(ctx context.Context, restaurantID string) ([]Table, error) {
	var tables []Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").
		Find(&tables).Error
	return tables, err
}

func (r *Repo) CreateTable(ctx context.Context, restaurantID, name string, capacity int) (Table, error) {
	if strings.TrimSpace(name) == "" || capacity < 1 {
		return Table{}, ErrInvalidInput
	}
	now := time.Now()
	t := Table{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(name),
		Capacity:     capacity,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return Table{}, err
	}
	return t, nil
}

func (r *Repo) SetTableActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&Table{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": active, "updated_at": time.Now()}).Error
}
