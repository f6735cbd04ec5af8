package model

import "time"

// DailyCategory is the universal walk-in customer category. Customers
// registered under it are visible at every market session.
const DailyCategory = "Daily"

// Customer belongs to exactly one market category and carries a serial
// number unique within that category. Serials are assigned by
// auto-increment at registration and never reclaimed on deletion.
type Customer struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:256;not null"`
	SerialNumber string `gorm:"size:32;not null"`
	MarketName   string `gorm:"index;size:128;not null"`
	IsDaily      bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
