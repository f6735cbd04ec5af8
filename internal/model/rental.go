package model

import "time"

// RentalStatus is the lifecycle state of a rental record.
type RentalStatus string

const (
	// StatusGiven marks a battery handed to a customer, pending return.
	StatusGiven RentalStatus = "GIVEN"
	// StatusReturned marks a battery handed back.
	StatusReturned RentalStatus = "RETURNED"
	// StatusLost is terminal: the battery never becomes available again
	// within its market session.
	StatusLost RentalStatus = "LOST"
)

// Rental records one battery handed to one customer at one market session.
// The status field is the only thing that ever changes (GIVEN to RETURNED
// or GIVEN to LOST, in place); rows are never deleted. A partial unique
// index on (market_id, battery_serial) for GIVEN rows guarantees at most
// one active holder per battery per session, see db.Migrate.
type Rental struct {
	ID            string       `gorm:"primaryKey;size:36"`
	MarketID      string       `gorm:"index;size:36;not null"`
	CustomerID    string       `gorm:"index;size:36;not null"`
	BatterySerial string       `gorm:"size:64;not null"`
	BatteryColor  BatteryColor `gorm:"size:16;not null;default:'default'"`
	Status        RentalStatus `gorm:"size:16;not null"`
	Date          string       `gorm:"size:10;not null"` // YYYY-MM-DD
	StaffID       string       `gorm:"size:64;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
