package models

import "time"

// PortfolioStats is a per-user summary row refreshed after every successful
// mutation in cloud mode. It exists so aggregate listings do not have to
// load and sum every user's assets.
type PortfolioStats struct {
	UserID          string    `gorm:"primaryKey" json:"user_id"`
	TotalValue      float64   `gorm:"not null;default:0" json:"total_value"`
	AssetsCount     int       `gorm:"not null;default:0" json:"assets_count"`
	CategoriesCount int       `gorm:"not null;default:0" json:"categories_count"`
	LastUpdated     time.Time `json:"last_updated"`
}

// TableName maps the model to the user_portfolios table.
func (PortfolioStats) TableName() string { return "user_portfolios" }
