package admins

import "time"

type Admin struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	RestaurantID string    `gorm:"type:char(36);not null;index:ix_admins_restaurant"`
	Email        string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_admins_email"`
	Name         string    `gorm:"type:varchar(191);not null"`
	PasswordHash string    `gorm:"type:varchar(128);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Admin) TableName() string { return "admins" }

// Session stores a sha256 of the bearer token, never the token itself.
type Session struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	AdminID   string    `gorm:"type:char(36);not null;index:ix_admin_sessions_admin"`
	TokenHash string    `gorm:"type:char(64);not null;uniqueIndex:ux_admin_sessions_token"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

func (Session) TableName() string { return "admin_sessions" }
