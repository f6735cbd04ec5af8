package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"battery-rental-backend/internal/db"
	"battery-rental-backend/internal/model"
)

// newMockDB wires a sqlmock connection behind GORM's postgres dialector.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB)
}

// A backing-store failure must surface to the caller, never hide behind an
// empty result.
func TestRentalsForMarketPropagatesFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	storeErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT (.+) FROM "rentals"`).WillReturnError(storeErr)

	_, err := s.RentalsForMarket(context.Background(), "mkt-1", model.StatusGiven)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketForStaffOnPropagatesFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	storeErr := errors.New("network unavailable")
	mock.ExpectQuery(`SELECT (.+) FROM "markets"`).WillReturnError(storeErr)

	_, err := s.MarketForStaffOn(context.Background(), "staff42", "2024-05-05")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatteriesSkipsExistingSerials(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	require.NoError(t, s.CreateBatteries(ctx, []model.Battery{
		{Serial: "D1", Color: model.ColorGreen},
		{Serial: "D2", Color: model.ColorGreen},
	}))

	// Overlapping range: D2 keeps its original color, D3 is added.
	require.NoError(t, s.CreateBatteries(ctx, []model.Battery{
		{Serial: "D2", Color: model.ColorRed},
		{Serial: "D3", Color: model.ColorRed},
	}))

	pool, err := s.BatteriesBySerial(ctx, []string{"D1", "D2", "D3"})
	require.NoError(t, err)
	require.Len(t, pool, 3)
	assert.Equal(t, model.ColorGreen, pool["D2"].Color)
	assert.Equal(t, model.ColorRed, pool["D3"].Color)
}

func TestUpdateRentalStatusNotFound(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	err := s.UpdateRentalStatus(ctx, "missing", model.StatusReturned)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarketForStaffOnNotFound(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := s.MarketForStaffOn(ctx, "staff42", "2024-05-05")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMarketRejectsDoubleBooking(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	first := &model.Market{ID: "m1", Name: "Main Bazar", Date: "2024-05-05", StaffID: "staff42", Prefix: "D", RangeStart: 1, RangeEnd: 5}
	require.NoError(t, s.CreateMarket(ctx, first))

	// Same staff, same date: the unique index rejects the double booking.
	second := &model.Market{ID: "m2", Name: "South Market", Date: "2024-05-05", StaffID: "staff42", Prefix: "E", RangeStart: 1, RangeEnd: 5}
	err := s.CreateMarket(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// A different date is fine.
	third := &model.Market{ID: "m3", Name: "South Market", Date: "2024-05-06", StaffID: "staff42", Prefix: "E", RangeStart: 1, RangeEnd: 5}
	assert.NoError(t, s.CreateMarket(ctx, third))
}

func TestRentalStatusCounts(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	rentals := []model.Rental{
		{ID: "r1", MarketID: "m1", CustomerID: "c1", BatterySerial: "D1", Status: model.StatusGiven, Date: "2024-05-05", StaffID: "staff42"},
		{ID: "r2", MarketID: "m1", CustomerID: "c1", BatterySerial: "D2", Status: model.StatusReturned, Date: "2024-05-05", StaffID: "staff42"},
		{ID: "r3", MarketID: "m1", CustomerID: "c2", BatterySerial: "D3", Status: model.StatusReturned, Date: "2024-05-05", StaffID: "staff42"},
		{ID: "r4", MarketID: "m2", CustomerID: "c3", BatterySerial: "E1", Status: model.StatusLost, Date: "2024-05-05", StaffID: "staff43"},
	}
	require.NoError(t, s.CreateRentals(ctx, rentals))

	rows, err := s.RentalStatusCounts(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []RentalCountRow{
		{MarketID: "m1", Status: model.StatusGiven, Count: 1},
		{MarketID: "m1", Status: model.StatusReturned, Count: 2},
		{MarketID: "m2", Status: model.StatusLost, Count: 1},
	}, rows)
}
