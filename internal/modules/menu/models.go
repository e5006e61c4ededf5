package menu

import "time"

type Category struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:char(36);not null;index:ix_categories_restaurant" json:"restaurantId"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	SortOrder    int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Category) TableName() string { return "menu_categories" }

type Item struct {
	ID           string  `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID string  `gorm:"type:char(36);not null;index:ix_menu_items_restaurant" json:"restaurantId"`
	CategoryID   string  `gorm:"type:char(36);not null;index:ix_menu_items_category" json:"categoryId"`
	Name         string  `gorm:"type:varchar(191);not null" json:"name"`
	Description  string  `gorm:"type:varchar(512)" json:"description"`
	Price        float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency     string  `gorm:"type:char(3);not null;default:'INR'" json:"currency"`
	Veg          bool    `gorm:"not null;default:false" json:"veg"`
	Available    bool    `gorm:"not null;default:true" json:"available"`
	ImageURL     *string `gorm:"type:varchar(512)" json:"imageUrl,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Item) TableName() string { return "menu_items" }
