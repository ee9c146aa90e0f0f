package models

import (
	"time"

	"nestegg/internal/uuid"

	"gorm.io/gorm"
)

// HistoryType enumerates the asset events recorded in the change history.
type HistoryType string

const (
	HistoryTypeAdd    HistoryType = "add"
	HistoryTypeUpdate HistoryType = "update"
	HistoryTypeDelete HistoryType = "delete"
)

// HistoryEntry is an immutable audit record of an add/update/delete event on
// an asset. Asset and category names are captured as plain strings at event
// time so entries survive later deletions.
type HistoryEntry struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	UserID       string      `gorm:"not null;index:idx_history_user_time,priority:1" json:"user_id"`
	Type         HistoryType `gorm:"not null" json:"type"`
	AssetName    string      `gorm:"not null" json:"asset_name"`
	CategoryName string      `gorm:"not null" json:"category_name"`
	Amount       float64     `gorm:"not null" json:"amount"`
	Timestamp    time.Time   `gorm:"not null;index:idx_history_user_time,priority:2,sort:desc" json:"timestamp"`
}

// TableName maps the model to the portfolio_history table.
func (HistoryEntry) TableName() string { return "portfolio_history" }

// BeforeCreate hook generates a UUIDv7 for new entries
func (h *HistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New()
	}
	return nil
}
