package model

import "time"

// Market is one operating instance of a market on one calendar date: an
// assigned staff member plus a contiguous battery serial range (prefix +
// inclusive bounds) carved out of the global pool for that day. Immutable
// after creation.
type Market struct {
	ID         string `gorm:"primaryKey;size:36"`
	Name       string `gorm:"size:128;not null"`
	Date       string `gorm:"index:idx_markets_staff_date,unique;size:10;not null"` // YYYY-MM-DD
	StaffID    string `gorm:"index:idx_markets_staff_date,unique;size:64;not null"`
	Prefix     string `gorm:"size:16;not null"`
	RangeStart int    `gorm:"not null"`
	RangeEnd   int    `gorm:"not null"`
	CreatedAt  time.Time
}
