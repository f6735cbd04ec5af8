package roster

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"battery-rental-backend/internal/db"
	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB)
}

func TestRegisterAutoIncrementPerCategory(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))

	for i, name := range []string{"Rahul Sharma", "Amit Patel", "Priya Verma"} {
		c, err := svc.Register(ctx, name, "Main Bazar")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i+1), c.SerialNumber)
		assert.False(t, c.IsDaily)
	}

	// A different category starts again at 1.
	c, err := svc.Register(ctx, "Walk In", "South Market")
	require.NoError(t, err)
	assert.Equal(t, "1", c.SerialNumber)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))

	_, err := svc.Register(ctx, "  ", "Main Bazar")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Register(ctx, "Someone", "")
	assert.ErrorIs(t, err, ErrEmptyCategory)
}

func TestRegisterDailySetsWalkInFlag(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))

	c, err := svc.Register(ctx, "Walk In", model.DailyCategory)
	require.NoError(t, err)
	assert.True(t, c.IsDaily)
}

// Deleting a customer never renumbers or reclaims serials.
func TestDeleteDoesNotReclaimSerials(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewService(s)

	first, err := svc.Register(ctx, "First", "Main Bazar")
	require.NoError(t, err)
	second, err := svc.Register(ctx, "Second", "Main Bazar")
	require.NoError(t, err)
	third, err := svc.Register(ctx, "Third", "Main Bazar")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, second.ID))

	fourth, err := svc.Register(ctx, "Fourth", "Main Bazar")
	require.NoError(t, err)
	assert.Equal(t, "4", fourth.SerialNumber)

	// Survivors keep their serials.
	roster, err := svc.RosterFor(ctx, &model.Market{Name: "Main Bazar"})
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, first.SerialNumber, roster[0].SerialNumber)
	assert.Equal(t, third.SerialNumber, roster[1].SerialNumber)
}

func TestRosterForWalkInVisibility(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewService(s)

	_, err := svc.Register(ctx, "Bazar Regular", "Main Bazar")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "South Regular", "South Market")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Walk In", model.DailyCategory)
	require.NoError(t, err)

	names := func(customers []model.Customer) []string {
		out := make([]string, len(customers))
		for i, c := range customers {
			out[i] = c.Name
		}
		return out
	}

	// Walk-ins appear at every session; market customers only at their own.
	roster, err := svc.RosterFor(ctx, &model.Market{Name: "Main Bazar"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bazar Regular", "Walk In"}, names(roster))

	roster, err = svc.RosterFor(ctx, &model.Market{Name: "South Market"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"South Regular", "Walk In"}, names(roster))

	roster, err = svc.RosterFor(ctx, &model.Market{Name: "Nowhere"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Walk In"}, names(roster))
}

func TestRosterNaturalOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewService(s)

	// Seed customers with serials that sort wrongly as plain strings.
	for _, c := range []model.Customer{
		{ID: "c10", Name: "Ten", SerialNumber: "10", MarketName: "Main Bazar"},
		{ID: "c2", Name: "Two", SerialNumber: "2", MarketName: "Main Bazar"},
		{ID: "c1", Name: "One", SerialNumber: "1", MarketName: "Main Bazar"},
	} {
		require.NoError(t, s.CreateCustomer(ctx, &c))
	}

	roster, err := svc.RosterFor(ctx, &model.Market{Name: "Main Bazar"})
	require.NoError(t, err)
	got := make([]string, len(roster))
	for i, c := range roster {
		got[i] = c.SerialNumber
	}
	assert.Equal(t, []string{"1", "2", "10"}, got)
}

func TestRegisterBulk(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t))

	count, err := svc.RegisterBulk(ctx, []string{"Alpha", "", "  ", "Beta"}, "Main Bazar")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows, err := svc.ExportRows(ctx, "Main Bazar")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{SerialNumber: "1", Name: "Alpha", Market: "Main Bazar"}, rows[0])
	assert.Equal(t, Row{SerialNumber: "2", Name: "Beta", Market: "Main Bazar"}, rows[1])
}
