package model

import "time"

// BatteryColor is a cosmetic tag on a battery.
type BatteryColor string

const (
	ColorDefault BatteryColor = "default"
	ColorGreen   BatteryColor = "green"
	ColorPink    BatteryColor = "pink"
	ColorBlue    BatteryColor = "blue"
	ColorRed     BatteryColor = "red"
	ColorYellow  BatteryColor = "yellow"
	ColorBlack   BatteryColor = "black"
)

// Battery is a serialized rental unit in the global pool. Batteries are
// created in bulk by serial range and deleted individually; the serial is
// never mutated. A battery is not owned by any market until a rental
// event allocates it.
type Battery struct {
	Serial    string       `gorm:"primaryKey;size:64"`
	Color     BatteryColor `gorm:"size:16;not null;default:'default'"`
	CreatedAt time.Time
}
