package orders

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/menu"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&menu.Category{},
		&menu.Item{},
		&Order{},
		&OrderItem{},
		&TransactionLog{},
	))
	return db
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) menu.Item {
	t.Helper()
	now := time.Now()
	it := menu.Item{
		ID:           uuid.NewString(),
		RestaurantID: "rest-1",
		CategoryID:   "cat-1",
		Name:         name,
		Price:        price,
		Currency:     "INR",
		Available:    available,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&it).Error)
	require.NoError(t, db.Model(&menu.Item{}).Where("id = ?", it.ID).Update("available", available).Error)
	return it
}

func seedOrder(t *testing.T, db *gorm.DB, status string, age time.Duration, reservationID *string) Order {
	t.Helper()
	created := time.Now().Add(-age)
	o := Order{
		ID:                uuid.NewString(),
		RestaurantID:      "rest-1",
		CustomerFirstName: "Asha",
		CustomerPhone:     "+919876543210",
		TotalAmount:       300,
		Currency:          "INR",
		PaymentMethod:     MethodOnline,
		Status:            status,
		PaymentStatus:     PaymentPending,
		ReservationID:     reservationID,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}
