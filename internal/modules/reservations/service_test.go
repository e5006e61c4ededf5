package reservations

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
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

	require.NoError(t, db.AutoMigrate(&Reservation{}, &Table{}, &ReservationEvent{}))
	return db
}

func seedTable(t *testing.T, db *gorm.DB, name string, capacity int, active bool) Table {
	t.Helper()
	now := time.Now()
	tbl := Table{
		ID:           uuid.NewString(),
		RestaurantID: "rest-1",
		Name:         name,
		Capacity:     capacity,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&tbl).Error)
	require.NoError(t, db.Model(&Table{}).Where("id = ?", tbl.ID).Update("active", active).Error)
	return tbl
}

func mustCreate(t *testing.T, svc *Service, partySize int, reservedFor time.Time) Reservation {
	t.Helper()
	r, err := svc.Create(context.Background(), CreateInput{
		RestaurantID: "rest-1",
		Name:         "Asha Rao",
		Phone:        "+919876543210",
		PartySize:    partySize,
		ReservedFor:  reservedFor,
	})
	require.NoError(t, err)
	return r
}

func TestCreateReservation(t *testing.T) {
	svc := NewService(openTestDB(t))

	r := mustCreate(t, svc, 4, time.Now().Add(24*time.Hour))
	assert.Equal(t, StatusPending, r.Status)
	assert.Nil(t, r.TableID)
}

func TestCreateReservationValidation(t *testing.T) {
	svc := NewService(openTestDB(t))
	ctx := context.Background()
	tomorrow := time.Now().Add(24 * time.Hour)

	cases := []CreateInput{
		{Name: "", Phone: "+91", PartySize: 2, ReservedFor: tomorrow},
		{Name: "A", Phone: "", PartySize: 2, ReservedFor: tomorrow},
		{Name: "A", Phone: "+91", PartySize: 0, ReservedFor: tomorrow},
		{Name: "A", Phone: "+91", PartySize: 21, ReservedFor: tomorrow},
		{Name: "A", Phone: "+91", PartySize: 2, ReservedFor: time.Now().Add(-time.Hour)},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestReservationTransitionFlow(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	r := mustCreate(t, svc, 2, time.Now().Add(2*time.Hour))

	steps := []struct {
		action string
		want   string
	}{
		{"confirm", StatusConfirmed},
		{"seat", StatusSeated},
		{"complete", StatusCompleted},
	}
	for _, s := range steps {
		require.NoError(t, svc.Transition(ctx, TransitionInput{
			ReservationID: r.ID,
			ActorAdminID:  "admin-1",
			Action:        s.action,
		}))
		var got Reservation
		require.NoError(t, db.First(&got, "id = ?", r.ID).Error)
		assert.Equal(t, s.want, got.Status)
	}

	var events []ReservationEvent
	require.NoError(t, db.Where("reservation_id = ?", r.ID).Order("created_at ASC").Find(&events).Error)
	require.Len(t, events, 3)
	assert.Equal(t, StatusPending, events[0].FromStatus)
	assert.Equal(t, StatusConfirmed, events[0].ToStatus)
}

func TestReservationInvalidTransition(t *testing.T) {
	svc := NewService(openTestDB(t))

	r := mustCreate(t, svc, 2, time.Now().Add(2*time.Hour))

	err := svc.Transition(context.Background(), TransitionInput{
		ReservationID: r.ID,
		ActorAdminID:  "admin-1",
		Action:        "seat", // must confirm first
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAssignTable(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	tbl := seedTable(t, db, "T1", 4, true)
	r := mustCreate(t, svc, 4, time.Now().Add(3*time.Hour))

	require.NoError(t, svc.AssignTable(context.Background(), r.ID, tbl.ID))

	var got Reservation
	require.NoError(t, db.First(&got, "id = ?", r.ID).Error)
	require.NotNil(t, got.TableID)
	assert.Equal(t, tbl.ID, *got.TableID)
}

func TestAssignTableRejectsUndersizedTable(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	tbl := seedTable(t, db, "T2", 2, true)
	r := mustCreate(t, svc, 6, time.Now().Add(3*time.Hour))

	err := svc.AssignTable(context.Background(), r.ID, tbl.ID)
	assert.ErrorIs(t, err, ErrTableTooSmall)
}

func TestAssignTableRejectsSlotClash(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	tbl := seedTable(t, db, "T3", 4, true)
	slot := time.Now().Add(5 * time.Hour)

	first := mustCreate(t, svc, 2, slot)
	require.NoError(t, svc.AssignTable(ctx, first.ID, tbl.ID))
	require.NoError(t, svc.Transition(ctx, TransitionInput{
		ReservationID: first.ID, ActorAdminID: "admin-1", Action: "confirm",
	}))

	// one hour later is inside the occupancy window
	second := mustCreate(t, svc, 2, slot.Add(time.Hour))
	err := svc.AssignTable(ctx, second.ID, tbl.ID)
	assert.ErrorIs(t, err, ErrTableUnavailable)

	// outside the window the table is free again
	third := mustCreate(t, svc, 2, slot.Add(3*time.Hour))
	require.NoError(t, svc.AssignTable(ctx, third.ID, tbl.ID))
}

func TestAssignTableIgnoresCancelledHolds(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	tbl := seedTable(t, db, "T4", 4, true)
	slot := time.Now().Add(5 * time.Hour)

	first := mustCreate(t, svc, 2, slot)
	require.NoError(t, svc.AssignTable(ctx, first.ID, tbl.ID))
	// still pending: a pending hold does not block the slot

	second := mustCreate(t, svc, 2, slot.Add(30*time.Minute))
	require.NoError(t, svc.AssignTable(ctx, second.ID, tbl.ID))
}

func TestAssignTableRejectsInactiveTable(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	tbl := seedTable(t, db, "T5", 4, false)
	r := mustCreate(t, svc, 2, time.Now().Add(3*time.Hour))

	err := svc.AssignTable(context.Background(), r.ID, tbl.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
