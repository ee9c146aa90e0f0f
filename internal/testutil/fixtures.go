package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"nestegg/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NextUserID returns a user identity unique within the test run, so tests
// sharing the cached in-memory database never see each other's rows.
func NextUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestCategory creates an active custom category with the given rate.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, interestRate float64) *models.Category {
	t.Helper()

	category := &models.Category{
		Base:         models.Base{UserID: userID},
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		Icon:         "Wallet",
		Color:        "emerald",
		InterestRate: interestRate,
		IsActive:     true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestAsset creates a manually added asset in the given category.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID, categoryID string, amount float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Base:       models.Base{UserID: userID},
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Asset %d", nextID()),
		Amount:     amount,
		Origin:     models.AssetOriginManual,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}
