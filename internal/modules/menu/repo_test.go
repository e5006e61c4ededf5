package menu

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Category{}, &Item{}))
	return db
}

func TestListAvailableGroupsByCategory(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	starters, err := repo.CreateCategory(ctx, "rest-1", "Starters", 1)
	require.NoError(t, err)
	mains, err := repo.CreateCategory(ctx, "rest-1", "Mains", 2)
	require.NoError(t, err)
	_, err = repo.CreateCategory(ctx, "rest-1", "Desserts", 3)
	require.NoError(t, err)

	_, err = repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: starters.ID, Name: "Samosa", Price: 40,
	})
	require.NoError(t, err)
	thali, err := repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: mains.ID, Name: "Thali", Price: 180,
	})
	require.NoError(t, err)
	hidden, err := repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: mains.ID, Name: "Off Menu", Price: 99,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetAvailability(ctx, hidden.ID, false))

	out, err := repo.ListAvailable(ctx, "rest-1")
	require.NoError(t, err)

	// the empty category is dropped
	require.Len(t, out, 2)
	assert.Equal(t, "Starters", out[0].Category.Name)
	assert.Equal(t, "Mains", out[1].Category.Name)
	require.Len(t, out[1].Items, 1)
	assert.Equal(t, thali.ID, out[1].Items[0].ID)
}

func TestListAvailableScopedToRestaurant(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, "rest-1", "Starters", 1)
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: cat.ID, Name: "Samosa", Price: 40,
	})
	require.NoError(t, err)

	out, err := repo.ListAvailable(ctx, "rest-2")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetItemsReturnsOnlyFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, "rest-1", "Starters", 1)
	require.NoError(t, err)
	it, err := repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: cat.ID, Name: "Samosa", Price: 40,
	})
	require.NoError(t, err)

	got, err := repo.GetItems(ctx, []string{it.ID, "no-such-id"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Samosa", got[it.ID].Name)
}

func TestSetImage(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, "rest-1", "Starters", 1)
	require.NoError(t, err)
	it, err := repo.CreateItem(ctx, CreateItemInput{
		RestaurantID: "rest-1", CategoryID: cat.ID, Name: "Samosa", Price: 40,
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetImage(ctx, it.ID, "/menu-images/abc.jpg"))

	got, err := repo.GetItem(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "/menu-images/abc.jpg", *got.ImageURL)
}
