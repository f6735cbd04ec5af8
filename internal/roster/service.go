// Package roster manages customer registration and the per-session
// customer roster. Customers carry serial numbers that auto-increment
// within their market category; walk-ins registered under the "Daily"
// category are visible at every session.
package roster

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"battery-rental-backend/internal/model"
	"battery-rental-backend/internal/natsort"
	"battery-rental-backend/internal/store"
)

var (
	// ErrEmptyName rejects registration of a blank customer name.
	ErrEmptyName = errors.New("customer name is empty")
	// ErrEmptyCategory rejects registration without a market category.
	ErrEmptyCategory = errors.New("market category is empty")
)

// Row is one exported roster line, the shape the spreadsheet collaborator
// consumes and produces.
type Row struct {
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
	Market       string `json:"market"`
}

// Service exposes roster operations backed by the store.
type Service struct {
	store store.Store
}

// NewService creates a roster service.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// RosterFor returns every customer visible at the market session: those
// registered under the market's name plus all walk-ins, in natural order
// of serial number.
func (s *Service) RosterFor(ctx context.Context, m *model.Market) ([]model.Customer, error) {
	categories := []string{m.Name}
	if m.Name != model.DailyCategory {
		categories = append(categories, model.DailyCategory)
	}
	customers, err := s.store.CustomersByCategory(ctx, categories...)
	if err != nil {
		return nil, err
	}
	sortCustomers(customers)
	return customers, nil
}

// Register creates a customer in the category with the next serial number:
// the highest numeric serial already present plus one, starting at 1.
// Serials are per category and never reclaimed after deletion.
func (s *Service) Register(ctx context.Context, name, category string) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if category == "" {
		return nil, ErrEmptyCategory
	}

	existing, err := s.store.CustomersByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	maxSerial := 0
	for _, c := range existing {
		if n, err := strconv.Atoi(c.SerialNumber); err == nil && n > maxSerial {
			maxSerial = n
		}
	}

	customer := &model.Customer{
		ID:           uuid.NewString(),
		Name:         name,
		SerialNumber: strconv.Itoa(maxSerial + 1),
		MarketName:   category,
		IsDaily:      category == model.DailyCategory,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// RegisterBulk registers one customer per name row, skipping blanks. This
// is the landing point for the import collaborator's {name} rows. It
// returns how many customers were created; a store failure stops the run
// and is propagated with the partial count.
func (s *Service) RegisterBulk(ctx context.Context, names []string, category string) (int, error) {
	count := 0
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := s.Register(ctx, name, category); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Delete removes a customer. Serial numbers of remaining customers are
// untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteCustomer(ctx, id)
}

// List returns all customers in natural serial order.
func (s *Service) List(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	sortCustomers(customers)
	return customers, nil
}

// ExportRows returns the category's roster as plain rows in natural serial
// order, ready for the export collaborator.
func (s *Service) ExportRows(ctx context.Context, category string) ([]Row, error) {
	customers, err := s.store.CustomersByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	sortCustomers(customers)
	rows := make([]Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, Row{SerialNumber: c.SerialNumber, Name: c.Name, Market: c.MarketName})
	}
	return rows, nil
}

func sortCustomers(customers []model.Customer) {
	sort.Slice(customers, func(i, j int) bool {
		return natsort.Less(customers[i].SerialNumber, customers[j].SerialNumber)
	})
}
