// Package contrib computes due-contribution reminders for assets with a
// monthly contribution plan.
package contrib

import (
	"fmt"
	"sort"
	"time"

	"nestegg/internal/models"
)

// reminderWindowDays is how many days ahead a pending contribution shows up.
const reminderWindowDays = 7

// Reminder describes one asset contribution that is due, upcoming, or
// overdue in the current month. DaysUntil is negative when overdue.
type Reminder struct {
	ID              string  `json:"id"`
	AssetID         string  `json:"asset_id"`
	AssetName       string  `json:"asset_name"`
	CategoryID      string  `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	CategoryColor   string  `json:"category_color"`
	Amount          float64 `json:"amount"`
	ContributionDay int     `json:"contribution_day"`
	DaysUntil       int     `json:"days_until"`
}

// Overdue reports whether the contribution day has already passed this month.
func (r Reminder) Overdue() bool { return r.DaysUntil < 0 }

// DueReminders returns reminders for assets in active categories whose
// contribution day falls within the reminder window or has already passed
// this month, sorted most urgent first. The reminder id is stable within a
// calendar month so clients can track dismissals.
func DueReminders(assets []models.Asset, categories []models.Category, now time.Time) []Reminder {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	currentDay := now.Day()
	result := []Reminder{}
	for _, a := range assets {
		if !a.HasContributionPlan() {
			continue
		}
		category, ok := byID[a.CategoryID]
		if !ok || !category.IsActive {
			continue
		}

		// Negative means the day already passed this month (overdue).
		daysUntil := a.ContributionDay - currentDay
		if daysUntil <= reminderWindowDays {
			result = append(result, Reminder{
				ID:              fmt.Sprintf("%d-%d-%s", now.Year(), int(now.Month()), a.ID),
				AssetID:         a.ID,
				AssetName:       a.Name,
				CategoryID:      category.ID,
				CategoryName:    category.Name,
				CategoryColor:   category.Color,
				Amount:          a.MonthlyContribution,
				ContributionDay: a.ContributionDay,
				DaysUntil:       daysUntil,
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DaysUntil < result[j].DaysUntil
	})
	return result
}
