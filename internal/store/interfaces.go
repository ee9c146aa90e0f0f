// Package store owns one user's portfolio: assets, categories, and change
// history. It exposes commands, derived-value queries, and two interchangeable
// backends behind the Portfolio interface: a blob-persisted local store and
// a Postgres-backed cloud store.
package store

import (
	"time"

	"nestegg/internal/metrics"
	"nestegg/internal/models"
	"nestegg/internal/pagination"
)

// AssetPatch carries the optional fields of an asset update. Nil fields are
// left unchanged.
type AssetPatch struct {
	Name                *string
	Amount              *float64
	CategoryID          *string
	MonthlyContribution *float64
	ContributionDay     *int
}

// CategoryPatch carries the optional fields of a category update. Nil fields
// are left unchanged. Toggling activation is expressed as an IsActive update.
type CategoryPatch struct {
	Name         *string
	Icon         *string
	Color        *string
	InterestRate *float64
	IsActive     *bool
}

// Portfolio is the single source of truth for one user's portfolio state.
// Commands either complete, with the new state reflected and durably
// persisted, or they fail with an *errors.AppError and leave the
// in-memory state untouched. Queries are recomputed from the current
// in-memory snapshot on every call.
type Portfolio interface {
	// Snapshots, in stable insertion order.
	Assets() []models.Asset
	Categories() []models.Category

	// History returns change history newest-first. The local backend retains
	// only the 50 most recent entries; the cloud backend pages the full history.
	History(page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error)

	// Commands.
	AddAsset(name string, amount float64, categoryID string, monthlyContribution float64, contributionDay int, origin models.AssetOrigin) (*models.Asset, error)
	UpdateAsset(id string, patch AssetPatch) (*models.Asset, error)
	DeleteAsset(id string) error
	AddContribution(assetID string, amount float64) (*models.Asset, error)
	AddCategory(name, icon, color string, interestRate float64) (*models.Category, error)
	UpdateCategory(id string, patch CategoryPatch) (*models.Category, error)
	DeleteCategory(id string) error

	// Loading is true until the initial hydration completes. Syncing is true
	// while a durable write is in flight, so callers can hold back
	// conflicting commands.
	Loading() bool
	Syncing() bool

	// Derived-value queries.
	TotalValue() float64
	CategoryTotal(categoryID string) float64
	AssetsByCategory(categoryID string) []models.Asset
	CategoryProfit(categoryID string) float64
	TotalProjectedProfit() float64
	WeightedAverageRate() float64
	TotalMonthlyContribution() float64
	CategoryMonthlyContribution(categoryID string) float64
	FirstAssetDate() time.Time
	LargestAsset() *models.Asset
	AverageAssetValue() float64
	LargestProfit() *metrics.CategoryProfitEntry
}

// Provider resolves the Portfolio for a user identity. The cloud provider
// hydrates one store per user; the local provider always serves the single
// on-device portfolio.
type Provider interface {
	ForUser(userID string) (Portfolio, error)
}
