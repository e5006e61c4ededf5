package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dineezy.in/app/internal/modules/menu"
)

func TestCreatePricesServerSide(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, menu.NewRepo(db))

	dosa := seedMenuItem(t, db, "Masala Dosa", 120.50, true)
	chai := seedMenuItem(t, db, "Chai", 30, true)

	res, err := svc.Create(context.Background(), CreateInput{
		RestaurantID:  "rest-1",
		FirstName:     "Asha",
		Phone:         "+919876543210",
		PaymentMethod: MethodOnline,
		Items: []CreateItemInput{
			{MenuItemID: dosa.ID, Quantity: 2},
			{MenuItemID: chai.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 331.0, res.Order.TotalAmount) // 2*120.50 + 3*30
	assert.Equal(t, StatusPending, res.Order.Status)
	assert.Equal(t, PaymentPending, res.Order.PaymentStatus)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 241.0, res.Items[0].LineTotal)
	assert.Equal(t, "Masala Dosa", res.Items[0].Name)

	var entry TransactionLog
	require.NoError(t, db.First(&entry, "order_id = ?", res.Order.ID).Error)
	assert.Equal(t, "order_created", entry.Type)
	assert.Equal(t, 331.0, entry.Amount)
}

func TestCreateCashConfirmsImmediately(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, menu.NewRepo(db))

	it := seedMenuItem(t, db, "Thali", 180, true)

	res, err := svc.Create(context.Background(), CreateInput{
		RestaurantID:  "rest-1",
		FirstName:     "Asha",
		Phone:         "+919876543210",
		PaymentMethod: MethodCash,
		Items:         []CreateItemInput{{MenuItemID: it.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Order.Status)
	assert.Equal(t, PaymentPending, res.Order.PaymentStatus)
}

func TestCreateRejectsUnavailableItem(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, menu.NewRepo(db))

	off := seedMenuItem(t, db, "Seasonal Special", 200, false)

	_, err := svc.Create(context.Background(), CreateInput{
		RestaurantID:  "rest-1",
		FirstName:     "Asha",
		Phone:         "+919876543210",
		PaymentMethod: MethodOnline,
		Items:         []CreateItemInput{{MenuItemID: off.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsUnknownItem(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, menu.NewRepo(db))

	_, err := svc.Create(context.Background(), CreateInput{
		RestaurantID:  "rest-1",
		FirstName:     "Asha",
		Phone:         "+919876543210",
		PaymentMethod: MethodOnline,
		Items:         []CreateItemInput{{MenuItemID: "no-such-item", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCreateRejectsEmptyAndInvalid(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, menu.NewRepo(db))
	it := seedMenuItem(t, db, "Chai", 30, true)

	_, err := svc.Create(context.Background(), CreateInput{PaymentMethod: MethodOnline})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(context.Background(), CreateInput{
		PaymentMethod: "card",
		Items:         []CreateItemInput{{MenuItemID: it.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidMethod)

	_, err = svc.Create(context.Background(), CreateInput{
		PaymentMethod: MethodOnline,
		Items:         []CreateItemInput{{MenuItemID: it.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestAdminTransitionFlow(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)
	ctx := context.Background()

	o := seedOrder(t, db, StatusPending, 0, nil)

	steps := []struct {
		action string
		want   string
	}{
		{"accept", StatusConfirmed},
		{"prepare", StatusPreparing},
		{"ready", StatusReady},
		{"complete", StatusCompleted},
	}
	for _, s := range steps {
		require.NoError(t, svc.Transition(ctx, TransitionInput{
			OrderID:      o.ID,
			ActorAdminID: "admin-1",
			Action:       s.action,
		}))
		var got Order
		require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
		assert.Equal(t, s.want, got.Status)
	}

	var logCount int64
	require.NoError(t, db.Model(&TransactionLog{}).Where("order_id = ?", o.ID).Count(&logCount).Error)
	assert.Equal(t, int64(4), logCount)
}

func TestAdminTransitionRejectsInvalidStep(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)

	o := seedOrder(t, db, StatusPending, 0, nil)

	err := svc.Transition(context.Background(), TransitionInput{
		OrderID:      o.ID,
		ActorAdminID: "admin-1",
		Action:       "ready", // pending cannot go straight to ready
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminCancelRecordsReason(t *testing.T) {
	db := openTestDB(t)
	svc := NewAdminService(db)

	o := seedOrder(t, db, StatusConfirmed, 0, nil)

	require.NoError(t, svc.Transition(context.Background(), TransitionInput{
		OrderID:      o.ID,
		ActorAdminID: "admin-1",
		Action:       "cancel",
		Note:         "kitchen closed",
	}))

	var got Order
	require.NoError(t, db.First(&got, "id = ?", o.ID).Error)
	assert.Equal(t, StatusCancelled, got.Status)
	require.NotNil(t, got.CancelReason)
	assert.Equal(t, "kitchen closed", *got.CancelReason)
	assert.NotNil(t, got.CancelledAt)
}
