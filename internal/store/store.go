package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"battery-rental-backend/internal/model"
)

// ErrNotFound is returned when a record does not exist. Callers that treat
// absence as a neutral state (not a failure) branch on it with errors.Is.
var ErrNotFound = gorm.ErrRecordNotFound

// Store defines the persistence operations the services depend on. Every
// method may block on network I/O to the backing database and propagates
// failures to the caller; nothing is retried or swallowed here.
type Store interface {
	DB() *gorm.DB

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListStaff(ctx context.Context) ([]model.User, error)

	// Market-category registry
	CreateMarketDefinition(ctx context.Context, def *model.MarketDefinition) error
	ListMarketDefinitions(ctx context.Context) ([]model.MarketDefinition, error)
	DeleteMarketDefinition(ctx context.Context, id string) error

	// Customers
	CreateCustomer(ctx context.Context, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	CustomersByCategory(ctx context.Context, categories ...string) ([]model.Customer, error)

	// Batteries
	CreateBatteries(ctx context.Context, batteries []model.Battery) error
	DeleteBattery(ctx context.Context, serial string) error
	ListBatteries(ctx context.Context) ([]model.Battery, error)
	BatteriesBySerial(ctx context.Context, serials []string) (map[string]model.Battery, error)

	// Market sessions
	CreateMarket(ctx context.Context, m *model.Market) error
	GetMarket(ctx context.Context, id string) (*model.Market, error)
	ListMarkets(ctx context.Context) ([]model.Market, error)
	MarketForStaffOn(ctx context.Context, staffID, date string) (*model.Market, error)

	// Rental ledger
	CreateRentals(ctx context.Context, rentals []model.Rental) error
	GetRental(ctx context.Context, id string) (*model.Rental, error)
	UpdateRentalStatus(ctx context.Context, id string, status model.RentalStatus) error
	RentalsForMarket(ctx context.Context, marketID string, statuses ...model.RentalStatus) ([]model.Rental, error)
	RentalsForCustomer(ctx context.Context, marketID, customerID string) ([]model.Rental, error)
	RentalStatusCounts(ctx context.Context) ([]RentalCountRow, error)
}

// RentalCountRow is one aggregation bucket for the reports view.
type RentalCountRow struct {
	MarketID string
	Status   model.RentalStatus
	Count    int64
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.ID, err)
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return &u, nil
}

func (s *gormStore) ListStaff(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Where("role = ?", model.RoleStaff).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// --- Market-category registry ---

func (s *gormStore) CreateMarketDefinition(ctx context.Context, def *model.MarketDefinition) error {
	if err := s.db.WithContext(ctx).Create(def).Error; err != nil {
		return fmt.Errorf("failed to create market definition %q: %w", def.Name, err)
	}
	return nil
}

func (s *gormStore) ListMarketDefinitions(ctx context.Context) ([]model.MarketDefinition, error) {
	var defs []model.MarketDefinition
	if err := s.db.WithContext(ctx).Order("created_at").Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("failed to list market definitions: %w", err)
	}
	return defs, nil
}

func (s *gormStore) DeleteMarketDefinition(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.MarketDefinition{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete market definition %s: %w", id, err)
	}
	return nil
}

// --- Customers ---

func (s *gormStore) CreateCustomer(ctx context.Context, c *model.Customer) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create customer %q: %w", c.Name, err)
	}
	return nil
}

func (s *gormStore) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	return nil
}

func (s *gormStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := s.db.WithContext(ctx).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *gormStore) CustomersByCategory(ctx context.Context, categories ...string) ([]model.Customer, error) {
	var customers []model.Customer
	if err := s.db.WithContext(ctx).Where("market_name IN ?", categories).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch customers for categories %v: %w", categories, err)
	}
	return customers, nil
}

// --- Batteries ---

// CreateBatteries inserts the given batteries, silently skipping serials
// that already exist in the pool.
func (s *gormStore) CreateBatteries(ctx context.Context, batteries []model.Battery) error {
	if len(batteries) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "serial"}},
		DoNothing: true,
	}).Create(&batteries).Error
	if err != nil {
		return fmt.Errorf("failed to create batteries: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteBattery(ctx context.Context, serial string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Battery{}, "serial = ?", serial).Error; err != nil {
		return fmt.Errorf("failed to delete battery %s: %w", serial, err)
	}
	return nil
}

func (s *gormStore) ListBatteries(ctx context.Context) ([]model.Battery, error) {
	var batteries []model.Battery
	if err := s.db.WithContext(ctx).Find(&batteries).Error; err != nil {
		return nil, fmt.Errorf("failed to list batteries: %w", err)
	}
	return batteries, nil
}

func (s *gormStore) BatteriesBySerial(ctx context.Context, serials []string) (map[string]model.Battery, error) {
	var batteries []model.Battery
	if err := s.db.WithContext(ctx).Where("serial IN ?", serials).Find(&batteries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch batteries by serial: %w", err)
	}
	batteryMap := make(map[string]model.Battery, len(batteries))
	for _, b := range batteries {
		batteryMap[b.Serial] = b
	}
	return batteryMap, nil
}

// --- Market sessions ---

func (s *gormStore) CreateMarket(ctx context.Context, m *model.Market) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create market %q on %s: %w", m.Name, m.Date, err)
	}
	return nil
}

func (s *gormStore) GetMarket(ctx context.Context, id string) (*model.Market, error) {
	var m model.Market
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch market %s: %w", id, err)
	}
	return &m, nil
}

func (s *gormStore) ListMarkets(ctx context.Context) ([]model.Market, error) {
	var markets []model.Market
	if err := s.db.WithContext(ctx).Order("date DESC, created_at DESC").Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, nil
}

// MarketForStaffOn returns the market assigned to the staff member on the
// given date, or ErrNotFound. A unique index on (staff_id, date) prevents
// duplicates at creation time; should legacy data still contain two, the
// earliest created wins.
func (s *gormStore) MarketForStaffOn(ctx context.Context, staffID, date string) (*model.Market, error) {
	var m model.Market
	err := s.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date).
		Order("created_at").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve market for staff %s on %s: %w", staffID, date, err)
	}
	return &m, nil
}

// --- Rental ledger ---

// CreateRentals writes all rows in one transaction: either every rental is
// recorded or none is. The partial unique index on active GIVEN rentals
// rejects a serial that was checked out by a concurrent writer after the
// caller derived availability; that rejection fails the whole batch.
func (s *gormStore) CreateRentals(ctx context.Context, rentals []model.Rental) error {
	if len(rentals) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rentals {
			if err := tx.Create(&rentals[i]).Error; err != nil {
				return fmt.Errorf("failed to record rental of %s: %w", rentals[i].BatterySerial, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (s *gormStore) GetRental(ctx context.Context, id string) (*model.Rental, error) {
	var r model.Rental
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch rental %s: %w", id, err)
	}
	return &r, nil
}

func (s *gormStore) UpdateRentalStatus(ctx context.Context, id string, status model.RentalStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Rental{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update rental %s to %s: %w", id, status, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) RentalsForMarket(ctx context.Context, marketID string, statuses ...model.RentalStatus) ([]model.Rental, error) {
	q := s.db.WithContext(ctx).Where("market_id = ?", marketID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var rentals []model.Rental
	if err := q.Order("created_at").Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rentals for market %s: %w", marketID, err)
	}
	return rentals, nil
}

func (s *gormStore) RentalsForCustomer(ctx context.Context, marketID, customerID string) ([]model.Rental, error) {
	var rentals []model.Rental
	err := s.db.WithContext(ctx).
		Where("market_id = ? AND customer_id = ?", marketID, customerID).
		Order("created_at").
		Find(&rentals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rentals for customer %s in market %s: %w", customerID, marketID, err)
	}
	return rentals, nil
}

func (s *gormStore) RentalStatusCounts(ctx context.Context) ([]RentalCountRow, error) {
	var rows []RentalCountRow
	err := s.db.WithContext(ctx).
		Model(&model.Rental{}).
		Select("market_id as market_id, status as status, COUNT(*) as count").
		Group("market_id").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rental counts: %w", err)
	}
	return rows, nil
}
