package contrib

import (
	"testing"
	"time"

	"nestegg/internal/models"
)

// now is the 10th, so days 3..17 fall in the overdue-or-upcoming window.
var testNow = time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)

func plannedAsset(id string, categoryID string, day int, amount float64) models.Asset {
	return models.Asset{
		Base:                models.Base{UserID: "u1", ID: id},
		CategoryID:          categoryID,
		Name:                "Asset " + id,
		Amount:              1000,
		MonthlyContribution: amount,
		ContributionDay:     day,
	}
}

func activeCategory(id string) models.Category {
	return models.Category{
		Base:     models.Base{UserID: "u1", ID: id},
		Name:     id,
		Color:    "emerald",
		IsActive: true,
	}
}

func TestDueRemindersWindow(t *testing.T) {
	categories := []models.Category{activeCategory("stocks")}
	assets := []models.Asset{
		plannedAsset("a1", "stocks", 5, 100),  // overdue by 5 days
		plannedAsset("a2", "stocks", 12, 50),  // due in 2 days
		plannedAsset("a3", "stocks", 17, 75),  // due in 7 days, window edge
		plannedAsset("a4", "stocks", 18, 200), // due in 8 days, outside window
	}

	reminders := DueReminders(assets, categories, testNow)

	if len(reminders) != 3 {
		t.Fatalf("expected 3 reminders, got %d", len(reminders))
	}

	// Most urgent first: overdue, then nearest due day.
	if reminders[0].AssetID != "a1" || reminders[1].AssetID != "a2" || reminders[2].AssetID != "a3" {
		t.Errorf("expected order [a1 a2 a3], got [%s %s %s]",
			reminders[0].AssetID, reminders[1].AssetID, reminders[2].AssetID)
	}

	if !reminders[0].Overdue() {
		t.Error("expected a1 to be overdue")
	}
	if reminders[0].DaysUntil != -5 {
		t.Errorf("expected a1 overdue by 5 days, got %d", reminders[0].DaysUntil)
	}
	if reminders[1].Overdue() {
		t.Error("a2 is upcoming, not overdue")
	}
}

func TestDueRemindersSkipAssetsWithoutPlan(t *testing.T) {
	categories := []models.Category{activeCategory("stocks")}
	assets := []models.Asset{
		plannedAsset("a1", "stocks", 0, 100), // no due day
		plannedAsset("a2", "stocks", 12, 0),  // no amount
	}

	if got := DueReminders(assets, categories, testNow); len(got) != 0 {
		t.Errorf("expected no reminders without a complete plan, got %d", len(got))
	}
}

func TestDueRemindersSkipInactiveCategories(t *testing.T) {
	inactive := activeCategory("stocks")
	inactive.IsActive = false
	assets := []models.Asset{plannedAsset("a1", "stocks", 12, 100)}

	if got := DueReminders(assets, []models.Category{inactive}, testNow); len(got) != 0 {
		t.Errorf("expected no reminders for inactive categories, got %d", len(got))
	}
}

func TestDueRemindersStableMonthlyID(t *testing.T) {
	categories := []models.Category{activeCategory("stocks")}
	assets := []models.Asset{plannedAsset("a1", "stocks", 12, 100)}

	first := DueReminders(assets, categories, testNow)
	later := DueReminders(assets, categories, testNow.AddDate(0, 0, 3))

	if len(first) != 1 || len(later) != 1 {
		t.Fatalf("expected one reminder in both runs, got %d and %d", len(first), len(later))
	}
	if first[0].ID != later[0].ID {
		t.Errorf("reminder id should be stable within a month: %s vs %s", first[0].ID, later[0].ID)
	}

	nextMonth := DueReminders(assets, categories, testNow.AddDate(0, 1, 0))
	if len(nextMonth) != 1 {
		t.Fatalf("expected one reminder next month, got %d", len(nextMonth))
	}
	if nextMonth[0].ID == first[0].ID {
		t.Error("reminder id should change across months")
	}
}
