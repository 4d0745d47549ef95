package models

import "time"

// Base contains the columns shared by the integer-keyed tables.
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
