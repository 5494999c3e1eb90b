package models

import "time"

// User is an account identified by its email address. Lookups are exact
// and case-sensitive: the email is stored as given at registration.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Name         string     `gorm:"size:255" json:"name"`
	Tasks        []Task     `json:"-"`
}
