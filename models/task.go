package models

import "time"

type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uint       `gorm:"primaryKey"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
	UserID      uint       `gorm:"index;not null"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"size:1024"`
	Status      TaskStatus `gorm:"size:32;not null"`
}
