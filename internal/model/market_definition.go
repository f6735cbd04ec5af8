package model

import "time"

// MarketDefinition is an entry in the market-category registry: a recurring
// market name plus the weekday it operates on. Customers are registered
// against these names. Pure reference data, no allocation logic.
type MarketDefinition struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	Day       string `gorm:"size:16;not null"`
	CreatedAt time.Time
}
