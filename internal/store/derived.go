package store

import (
	"time"

	"nestegg/internal/metrics"
	"nestegg/internal/models"
)

// derived implements every Portfolio query once on top of a snapshot
// function, so both backends share the metrics engine and cannot drift.
type derived struct {
	snapshot func() ([]models.Asset, []models.Category)
	now      func() time.Time
}

func (d derived) TotalValue() float64 {
	assets, categories := d.snapshot()
	return metrics.TotalValue(assets, categories)
}

func (d derived) CategoryTotal(categoryID string) float64 {
	assets, _ := d.snapshot()
	return metrics.CategoryTotal(assets, categoryID)
}

func (d derived) AssetsByCategory(categoryID string) []models.Asset {
	assets, _ := d.snapshot()
	return metrics.AssetsByCategory(assets, categoryID)
}

func (d derived) CategoryProfit(categoryID string) float64 {
	assets, categories := d.snapshot()
	return metrics.CategoryProfit(assets, categories, categoryID)
}

func (d derived) TotalProjectedProfit() float64 {
	assets, categories := d.snapshot()
	return metrics.TotalProjectedProfit(assets, categories)
}

func (d derived) WeightedAverageRate() float64 {
	assets, categories := d.snapshot()
	return metrics.WeightedAverageRate(assets, categories)
}

func (d derived) TotalMonthlyContribution() float64 {
	assets, categories := d.snapshot()
	return metrics.TotalMonthlyContribution(assets, categories)
}

func (d derived) CategoryMonthlyContribution(categoryID string) float64 {
	assets, _ := d.snapshot()
	return metrics.CategoryMonthlyContribution(assets, categoryID)
}

func (d derived) FirstAssetDate() time.Time {
	assets, _ := d.snapshot()
	return metrics.FirstAssetDate(assets, d.now())
}

func (d derived) LargestAsset() *models.Asset {
	assets, _ := d.snapshot()
	return metrics.LargestAsset(assets)
}

func (d derived) AverageAssetValue() float64 {
	assets, _ := d.snapshot()
	return metrics.AverageAssetValue(assets)
}

func (d derived) LargestProfit() *metrics.CategoryProfitEntry {
	assets, categories := d.snapshot()
	return metrics.LargestProfit(assets, categories)
}
