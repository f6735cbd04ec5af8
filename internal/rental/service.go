// Package rental implements the inventory allocation and rental lifecycle
// engine: deriving which batteries of a market's serial range are currently
// available, recording checkouts, and handling returns and losses.
package rental

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/natsort"
	"battery-rental-backend/internal/store"
)

var (
	// ErrNoCustomer rejects a checkout with no customer selected.
	ErrNoCustomer = errors.New("no customer selected")
	// ErrNoBatteries rejects a checkout with zero batteries selected.
	ErrNoBatteries = errors.New("no batteries selected")
	// ErrUnavailable rejects a checkout of a serial that is outside the
	// market's range or currently given out or lost.
	ErrUnavailable = errors.New("battery not available")
	// ErrLost rejects returning a battery that was marked lost.
	ErrLost = errors.New("rental is marked lost")
	// ErrNotActive rejects marking a non-GIVEN rental as lost.
	ErrNotActive = errors.New("rental is not active")
)

// Service exposes the allocation and ledger operations. All methods may
// block on the backing store and propagate its failures unchanged.
type Service struct {
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

// NewService creates the rental engine. loc determines what "today" means
// when resolving a staff member's market session.
func NewService(s store.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: s, loc: loc, now: time.Now}
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// TodaysMarketFor resolves the market session assigned to the staff member
// today. No assignment is a neutral (nil, nil) result, not an error.
func (s *Service) TodaysMarketFor(ctx context.Context, staffID string) (*model.Market, error) {
	m, err := s.store.MarketForStaffOn(ctx, staffID, s.today())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AvailableBatteries computes the batteries of the market's serial range
// that are currently free: every candidate in [start, end] under the
// prefix, minus serials with a GIVEN or LOST rental in this market. A
// serial without a pool entry still counts, with the default color: the
// range defines eligibility, not pool membership. The result is in natural
// serial order.
func (s *Service) AvailableBatteries(ctx context.Context, m *model.Market) ([]model.Battery, error) {
	held, err := s.heldSerials(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	var free []string
	for i := m.RangeStart; i <= m.RangeEnd; i++ {
		serial := fmt.Sprintf("%s%d", m.Prefix, i)
		if _, taken := held[serial]; !taken {
			free = append(free, serial)
		}
	}

	pool, err := s.store.BatteriesBySerial(ctx, free)
	if err != nil {
		return nil, err
	}

	batteries := make([]model.Battery, 0, len(free))
	for _, serial := range free {
		if b, ok := pool[serial]; ok {
			batteries = append(batteries, b)
		} else {
			batteries = append(batteries, model.Battery{Serial: serial, Color: model.ColorDefault})
		}
	}
	sort.Slice(batteries, func(i, j int) bool {
		return natsort.Less(batteries[i].Serial, batteries[j].Serial)
	})
	return batteries, nil
}

func (s *Service) heldSerials(ctx context.Context, marketID string) (map[string]struct{}, error) {
	rentals, err := s.store.RentalsForMarket(ctx, marketID, model.StatusGiven, model.StatusLost)
	if err != nil {
		return nil, err
	}
	held := make(map[string]struct{}, len(rentals))
	for _, r := range rentals {
		held[r.BatterySerial] = struct{}{}
	}
	return held, nil
}

// Checkout records one GIVEN rental per serial for the customer, all in a
// single transaction. Availability is re-derived here so a stale client
// view cannot hand out a held battery; the store's unique index on active
// rentals catches the remaining write race, and that rejection propagates
// to the caller with no rows written.
func (s *Service) Checkout(ctx context.Context, m *model.Market, customerID string, serials []string, staffID string) ([]model.Rental, error) {
	if customerID == "" {
		return nil, ErrNoCustomer
	}
	if len(serials) == 0 {
		return nil, ErrNoBatteries
	}

	available, err := s.AvailableBatteries(ctx, m)
	if err != nil {
		return nil, err
	}
	colorBySerial := make(map[string]model.BatteryColor, len(available))
	for _, b := range available {
		colorBySerial[b.Serial] = b.Color
	}
	for _, serial := range serials {
		if _, ok := colorBySerial[serial]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, serial)
		}
	}

	date := s.today()
	rentals := make([]model.Rental, 0, len(serials))
	for _, serial := range serials {
		rentals = append(rentals, model.Rental{
			ID:            uuid.NewString(),
			MarketID:      m.ID,
			CustomerID:    customerID,
			BatterySerial: serial,
			BatteryColor:  colorBySerial[serial],
			Status:        model.StatusGiven,
			Date:          date,
			StaffID:       staffID,
		})
	}
	if err := s.store.CreateRentals(ctx, rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// Return transitions a rental from GIVEN to RETURNED in place. Returning
// an already-RETURNED rental is a no-op; returning a LOST rental is
// rejected so a lost battery cannot resurface in the available pool.
func (s *Service) Return(ctx context.Context, rentalID string) error {
	r, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return err
	}
	switch r.Status {
	case model.StatusReturned:
		return nil
	case model.StatusLost:
		return fmt.Errorf("%w: %s", ErrLost, r.BatterySerial)
	}
	return s.store.UpdateRentalStatus(ctx, rentalID, model.StatusReturned)
}

// MarkLost transitions an active rental to LOST. The battery is then
// permanently excluded from this market's availability; there is no
// un-lose operation.
func (s *Service) MarkLost(ctx context.Context, rentalID string) error {
	r, err := s.store.GetRental(ctx, rentalID)
	if err != nil {
		return err
	}
	if r.Status != model.StatusGiven {
		return fmt.Errorf("%w: %s is %s", ErrNotActive, r.BatterySerial, r.Status)
	}
	return s.store.UpdateRentalStatus(ctx, rentalID, model.StatusLost)
}

// ActiveRentals returns all GIVEN rentals of the market in checkout order.
func (s *Service) ActiveRentals(ctx context.Context, marketID string) ([]model.Rental, error) {
	return s.store.RentalsForMarket(ctx, marketID, model.StatusGiven)
}

// ActiveRentalsByCustomer groups the market's GIVEN rentals by customer,
// so a customer holding several batteries shows all of them together. A
// customer has an outstanding battery iff they appear as a key here.
func (s *Service) ActiveRentalsByCustomer(ctx context.Context, marketID string) (map[string][]model.Rental, error) {
	rentals, err := s.ActiveRentals(ctx, marketID)
	if err != nil {
		return nil, err
	}
	byCustomer := make(map[string][]model.Rental)
	for _, r := range rentals {
		byCustomer[r.CustomerID] = append(byCustomer[r.CustomerID], r)
	}
	return byCustomer, nil
}

// RentalsForCustomer returns every rental of the customer in the market,
// any status, in checkout order.
func (s *Service) RentalsForCustomer(ctx context.Context, marketID, customerID string) ([]model.Rental, error) {
	return s.store.RentalsForCustomer(ctx, marketID, customerID)
}
