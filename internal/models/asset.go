package models

// AssetOrigin records how an asset entered the portfolio. Contribution-origin
// assets are accumulated into the separate contribution series when the
// forecast engine reconstructs the historical timeline.
type AssetOrigin string

const (
	AssetOriginManual       AssetOrigin = "manual"
	AssetOriginContribution AssetOrigin = "contribution"
)

// Asset represents a single tracked holding with a monetary amount. An asset
// belongs to exactly one category and is removed when its category is deleted.
type Asset struct {
	Base
	CategoryID string  `gorm:"not null;index" json:"category_id"`
	Name       string  `gorm:"not null" json:"name"`
	Amount     float64 `gorm:"not null" json:"amount"`

	// MonthlyContribution is the planned recurring addition to this asset;
	// zero means no contribution is planned. ContributionDay is the day of
	// month (1-28) the contribution is due, zero when unset.
	MonthlyContribution float64 `gorm:"not null;default:0" json:"monthly_contribution"`
	ContributionDay     int     `gorm:"not null;default:0" json:"contribution_day"`

	Origin AssetOrigin `gorm:"not null;default:'manual'" json:"origin"`
}

// HasContributionPlan reports whether a monthly contribution with a due day
// is configured for this asset.
func (a *Asset) HasContributionPlan() bool {
	return a.MonthlyContribution > 0 && a.ContributionDay > 0
}
