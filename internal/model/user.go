package model

import "time"

// Role distinguishes administrators from market staff.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// User is a staff member or administrator who can log in.
// The ID doubles as the login name.
type User struct {
	ID           string `gorm:"primaryKey;size:64"`
	Name         string `gorm:"size:128;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         Role   `gorm:"size:16;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
