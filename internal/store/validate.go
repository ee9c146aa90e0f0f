package store

import (
	"strings"

	apperrors "nestegg/internal/errors"
	"nestegg/internal/models"
)

// Validation runs before any mutation or durable write, so a rejected
// command leaves no partial state in either backend.

func validateNewAsset(name string, amount, monthlyContribution float64, contributionDay int) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "asset amount must be positive")
	}
	return validateContributionPlan(monthlyContribution, contributionDay)
}

func validateAssetPatch(patch AssetPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if patch.Amount != nil && *patch.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "asset amount must be positive")
	}
	monthly := 0.0
	if patch.MonthlyContribution != nil {
		monthly = *patch.MonthlyContribution
	}
	day := 0
	if patch.ContributionDay != nil {
		day = *patch.ContributionDay
	}
	return validateContributionPlan(monthly, day)
}

func validateContributionPlan(monthlyContribution float64, contributionDay int) error {
	if monthlyContribution < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly contribution cannot be negative")
	}
	if contributionDay != 0 && (contributionDay < 1 || contributionDay > 28) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution day must be between 1 and 28")
	}
	return nil
}

func validateNewCategory(name string, interestRate float64) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if interestRate < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate cannot be negative")
	}
	return nil
}

func validateCategoryPatch(patch CategoryPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if patch.InterestRate != nil && *patch.InterestRate < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate cannot be negative")
	}
	return nil
}

func findCategory(categories []models.Category, id string) (models.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func findAsset(assets []models.Asset, id string) (int, bool) {
	for i := range assets {
		if assets[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// applyAssetPatch returns a copy of the asset with patch fields merged in.
func applyAssetPatch(asset models.Asset, patch AssetPatch) models.Asset {
	if patch.Name != nil {
		asset.Name = *patch.Name
	}
	if patch.Amount != nil {
		asset.Amount = *patch.Amount
	}
	if patch.CategoryID != nil {
		asset.CategoryID = *patch.CategoryID
	}
	if patch.MonthlyContribution != nil {
		asset.MonthlyContribution = *patch.MonthlyContribution
	}
	if patch.ContributionDay != nil {
		asset.ContributionDay = *patch.ContributionDay
	}
	return asset
}

// applyCategoryPatch returns a copy of the category with patch fields merged in.
func applyCategoryPatch(category models.Category, patch CategoryPatch) models.Category {
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if patch.InterestRate != nil {
		category.InterestRate = *patch.InterestRate
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}
	return category
}
