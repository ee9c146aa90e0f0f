// Package metrics computes derived portfolio values from asset and category
// snapshots. Every function is a pure derivation over its inputs and never
// mutates them, so both store backends produce identical results.
//
// All functions are O(n) over the snapshot and are recomputed on every call;
// portfolios are small enough that caching is not worth the staleness risk.
package metrics

import (
	"time"

	"nestegg/internal/models"
)

// activeCategoryIDs returns the set of category ids counted toward
// portfolio-wide aggregates.
func activeCategoryIDs(categories []models.Category) map[string]bool {
	ids := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.IsActive {
			ids[c.ID] = true
		}
	}
	return ids
}

// TotalValue sums asset amounts across active categories.
func TotalValue(assets []models.Asset, categories []models.Category) float64 {
	active := activeCategoryIDs(categories)
	var total float64
	for _, a := range assets {
		if active[a.CategoryID] {
			total += a.Amount
		}
	}
	return total
}

// CategoryTotal sums asset amounts in one category. Deliberately not filtered
// by activation state so inactive categories still report their own total.
func CategoryTotal(assets []models.Asset, categoryID string) float64 {
	var total float64
	for _, a := range assets {
		if a.CategoryID == categoryID {
			total += a.Amount
		}
	}
	return total
}

// AssetsByCategory returns the assets belonging to one category, preserving
// input order.
func AssetsByCategory(assets []models.Asset, categoryID string) []models.Asset {
	result := []models.Asset{}
	for _, a := range assets {
		if a.CategoryID == categoryID {
			result = append(result, a)
		}
	}
	return result
}

// CategoryProfit is the category's total times its annual rate. Returns 0
// for an unknown category.
func CategoryProfit(assets []models.Asset, categories []models.Category, categoryID string) float64 {
	for _, c := range categories {
		if c.ID == categoryID {
			return CategoryTotal(assets, categoryID) * c.InterestRate / 100
		}
	}
	return 0
}

// TotalProjectedProfit sums per-category annual profit over active categories.
func TotalProjectedProfit(assets []models.Asset, categories []models.Category) float64 {
	var total float64
	for _, c := range categories {
		if c.IsActive {
			total += CategoryTotal(assets, c.ID) * c.InterestRate / 100
		}
	}
	return total
}

// WeightedAverageRate is the value-weighted mean of active categories'
// interest rates. Returns 0 when no active value exists. The result is
// bounded by the min and max rate among active categories holding value.
func WeightedAverageRate(assets []models.Asset, categories []models.Category) float64 {
	total := TotalValue(assets, categories)
	if total == 0 {
		return 0
	}
	var rate float64
	for _, c := range categories {
		if c.IsActive {
			rate += c.InterestRate * CategoryTotal(assets, c.ID) / total
		}
	}
	return rate
}

// TotalMonthlyContribution sums planned monthly contributions over assets in
// active categories.
func TotalMonthlyContribution(assets []models.Asset, categories []models.Category) float64 {
	active := activeCategoryIDs(categories)
	var total float64
	for _, a := range assets {
		if active[a.CategoryID] {
			total += a.MonthlyContribution
		}
	}
	return total
}

// CategoryMonthlyContribution sums planned monthly contributions in one
// category, regardless of activation state.
func CategoryMonthlyContribution(assets []models.Asset, categoryID string) float64 {
	var total float64
	for _, a := range assets {
		if a.CategoryID == categoryID {
			total += a.MonthlyContribution
		}
	}
	return total
}

// FirstAssetDate returns the earliest asset creation time, or now when the
// portfolio holds no assets.
func FirstAssetDate(assets []models.Asset, now time.Time) time.Time {
	if len(assets) == 0 {
		return now
	}
	earliest := assets[0].CreatedAt
	for _, a := range assets[1:] {
		if a.CreatedAt.Before(earliest) {
			earliest = a.CreatedAt
		}
	}
	return earliest
}

// LargestAsset returns the asset with the highest amount, or nil when none
// exist. Ties keep the first asset in input order.
func LargestAsset(assets []models.Asset) *models.Asset {
	if len(assets) == 0 {
		return nil
	}
	max := assets[0]
	for _, a := range assets[1:] {
		if a.Amount > max.Amount {
			max = a
		}
	}
	return &max
}

// AverageAssetValue is the arithmetic mean of asset amounts, 0 when empty.
func AverageAssetValue(assets []models.Asset) float64 {
	if len(assets) == 0 {
		return 0
	}
	var total float64
	for _, a := range assets {
		total += a.Amount
	}
	return total / float64(len(assets))
}

// CategoryProfitEntry pairs a category with its projected annual profit.
type CategoryProfitEntry struct {
	Category models.Category `json:"category"`
	Profit   float64         `json:"profit"`
}

// LargestProfit returns the category (active or not) with the highest
// projected annual profit, requiring profit > 0 to qualify. Returns nil
// when no category qualifies. Ties keep the first category in input order.
func LargestProfit(assets []models.Asset, categories []models.Category) *CategoryProfitEntry {
	var best *CategoryProfitEntry
	for _, c := range categories {
		profit := CategoryTotal(assets, c.ID) * c.InterestRate / 100
		if profit > 0 && (best == nil || profit > best.Profit) {
			best = &CategoryProfitEntry{Category: c, Profit: profit}
		}
	}
	return best
}
