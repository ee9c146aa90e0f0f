package models

import (
	"time"

	"nestegg/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for per-user portfolio tables. Rows are
// scoped by user and keyed by a string id so that seeded categories can
// use stable well-known ids ("stocks", "bonds", ...) without colliding
// across users.
type Base struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
