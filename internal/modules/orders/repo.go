package orders

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

func (r *Repo) GetWithItems(ctx context.Context, id string) (Order, []OrderItem, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return Order{}, nil, err
	}
	var items []OrderItem
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items, "order_id = ?", id).Error; err != nil {
		return Order{}, nil, err
	}
	return o, items, nil
}

func (r *Repo) Logs(ctx context.Context, orderID string) ([]TransactionLog, error) {
	var logs []TransactionLog
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&logs, "order_id = ?", orderID).Error
	return logs, err
}

type ListParams struct {
	RestaurantID string
	Status       string // optional filter
	Phone        string // optional filter
	Page         int
	PageSize     int
}

type ListResult struct {
	Items []ListItem
	Total int64
}

type ListItem struct {
	Order Order
	Count int
}

// List powers the admin dashboard order view.
func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	q := r.db.WithContext(ctx).Model(&Order{}).
		Where("restaurant_id = ?", in.RestaurantID)
	if status := strings.TrimSpace(in.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		q = q.Where("customer_phone = ?", phone)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var found []Order
	if err := q.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&found).Error; err != nil {
		return ListResult{}, err
	}

	items := make([]ListItem, len(found))
	for i, o := range found {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderItem{}).Where("order_id = ?", o.ID).Count(&count).Error; err != nil {
			count = 0
		}
		items[i] = ListItem{Order: o, Count: int(count)}
	}

	return ListResult{Items: items, Total: total}, nil
}
