package menu

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CategoryWithItems struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// ListAvailable returns the customer-facing menu: active categories in sort
// order, each with its available items.
func (r *Repo) ListAvailable(ctx context.Context, restaurantID string) ([]CategoryWithItems, error) {
	var cats []Category
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC, name ASC").
		Find(&cats).Error; err != nil {
		return nil, err
	}

	var items []Item
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND available = ?", restaurantID, true).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	byCat := map[string][]Item{}
	for _, it := range items {
		byCat[it.CategoryID] = append(byCat[it.CategoryID], it)
	}

	out := make([]CategoryWithItems, 0, len(cats))
	for _, c := range cats {
		group := byCat[c.ID]
		if len(group) == 0 {
			continue
		}
		out = append(out, CategoryWithItems{Category: c, Items: group})
	}
	return out, nil
}

func (r *Repo) GetItem(ctx context.Context, id string) (Item, error) {
	var it Item
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	return it, err
}

// GetItems fetches many items at once; missing ids are simply absent from
// the result, callers decide whether that is an error.
func (r *Repo) GetItems(ctx context.Context, ids []string) (map[string]Item, error) {
	var items []Item
	if err := r.db.WithContext(ctx).Find(&items, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

type CreateItemInput struct {
	RestaurantID string
	CategoryID   string
	Name         string
	Description  string
	Price        float64
	Veg          bool
}

func (r *Repo) CreateItem(ctx context.Context, in CreateItemInput) (Item, error) {
	now := time.Now()
	it := Item{
		ID:           uuid.NewString(),
		RestaurantID: in.RestaurantID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Currency:     "INR",
		Veg:          in.Veg,
		Available:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&it).Error; err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) error {
	return r.db.WithContext(ctx).Model(&Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"available": available, "updated_at": time.Now()}).Error
}

func (r *Repo) SetImage(ctx context.Context, id, url string) error {
	return r.db.WithContext(ctx).Model(&Item{}).
		Where("id = ?", id).
		Updates(map[string]any{"image_url": url, "updated_at": time.Now()}).Error
}

func (r *Repo) CreateCategory(ctx context.Context, restaurantID, name string, sortOrder int) (Category, error) {
	now := time.Now()
	c := Category{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		SortOrder:    sortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return Category{}, err
	}
	return c, nil
}
