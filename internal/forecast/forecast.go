// Package forecast projects portfolio value forward under monthly compound
// growth plus recurring contributions, and reconstructs a trailing historical
// timeline for charting. It is pure computation over validated inputs and
// has no failure modes.
package forecast

import (
	"math"
	"sort"
	"time"

	"nestegg/internal/models"
)

// Horizon is one of the three fixed projection windows.
type Horizon string

const (
	Horizon1Y  Horizon = "1y"
	Horizon5Y  Horizon = "5y"
	Horizon10Y Horizon = "10y"
)

// Valid reports whether h is a recognized horizon.
func (h Horizon) Valid() bool {
	return h == Horizon1Y || h == Horizon5Y || h == Horizon10Y
}

// Months returns the projection length in months.
func (h Horizon) Months() int {
	switch h {
	case Horizon5Y:
		return 60
	case Horizon10Y:
		return 120
	default:
		return 12
	}
}

// SampleInterval returns the chart sampling step in months. The final month
// is always emitted regardless of the interval.
func (h Horizon) SampleInterval() int {
	switch h {
	case Horizon5Y:
		return 3
	case Horizon10Y:
		return 6
	default:
		return 1
	}
}

// HistoryCap returns how many trailing months of reconstructed history the
// chart carries for this horizon.
func (h Horizon) HistoryCap() int {
	switch h {
	case Horizon5Y:
		return 36
	case Horizon10Y:
		return 48
	default:
		return 12
	}
}

// Input carries everything the projection needs. Now is injectable for
// deterministic tests; the zero value means time.Now().
type Input struct {
	TotalValue          float64
	WeightedRate        float64 // annual rate in percent
	MonthlyContribution float64
	Assets              []models.Asset
	FirstAssetDate      time.Time
	Now                 time.Time
}

// Point is one sample of the combined historical/forecast series. Nil values
// mean "no data for this month" so charts render a gap rather than a zero.
type Point struct {
	Date          time.Time `json:"date"`
	Value         *float64  `json:"value"`         // reconstructed historical value
	Forecast      *float64  `json:"forecast"`      // projected value
	Contributions *float64  `json:"contributions"` // cumulative logged contributions (historical)
	MonthIndex    int       `json:"month_index"`   // <=0 historical, >=1 forecast
	Contribution  float64   `json:"contribution"`  // cumulative planned contributions (forecast)
}

// Result is the outcome of a projection.
type Result struct {
	Horizon            Horizon `json:"horizon"`
	Points             []Point `json:"points"`
	ProjectedValue     float64 `json:"projected_value"`
	ProjectedProfit    float64 `json:"projected_profit"`
	TotalContributions float64 `json:"total_contributions"`
	PercentageGrowth   float64 `json:"percentage_growth"`
	// Empty is set when the portfolio holds no value; no series is produced
	// so callers can show a placeholder instead of a degenerate chart.
	Empty bool `json:"empty"`
}

// monthKey identifies a calendar month.
type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// monthStart returns the first instant of t's calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsBetween counts whole calendar months from a to b, 0 when b precedes a.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months < 0 {
		return 0
	}
	return months
}

// projectAt returns the projected value after i months of monthly compounding
// at rate r with contribution c per month. The r=0 branch accumulates
// contributions flat, avoiding division by zero.
func projectAt(v, r, c float64, i int) float64 {
	compounded := v * math.Pow(1+r, float64(i))
	var contributed float64
	if r > 0 {
		contributed = c * (math.Pow(1+r, float64(i)) - 1) / r
	} else {
		contributed = c * float64(i)
	}
	return compounded + contributed
}

// Project computes the projected series and summary figures for one horizon.
func Project(in Input, h Horizon) Result {
	if !h.Valid() {
		h = Horizon1Y
	}
	if in.TotalValue == 0 {
		return Result{Horizon: h, Points: []Point{}, Empty: true}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	points := reconstructHistory(in, h, now)

	monthlyRate := in.WeightedRate / 100 / 12
	months := h.Months()
	interval := h.SampleInterval()

	for i := 1; i <= months; i++ {
		if i%interval != 0 && i != months {
			continue
		}
		value := projectAt(in.TotalValue, monthlyRate, in.MonthlyContribution, i)
		points = append(points, Point{
			Date:         monthStart(now).AddDate(0, i, 0),
			Forecast:     &value,
			MonthIndex:   i,
			Contribution: in.MonthlyContribution * float64(i),
		})
	}

	projectedValue := projectAt(in.TotalValue, monthlyRate, in.MonthlyContribution, months)
	totalContributions := in.MonthlyContribution * float64(months)

	var growth float64
	if in.TotalValue > 0 {
		growth = (projectedValue - in.TotalValue) / in.TotalValue * 100
	}

	return Result{
		Horizon:            h,
		Points:             points,
		ProjectedValue:     projectedValue,
		ProjectedProfit:    projectedValue - in.TotalValue - totalContributions,
		TotalContributions: totalContributions,
		PercentageGrowth:   growth,
	}
}

// reconstructHistory rebuilds the trailing monthly value series by replaying
// asset creations in chronological order. Months with no new asset carry the
// last known cumulative value forward; months before the first asset emit nil
// values. The most recent point (offset 0) uses the live total value rather
// than the last bucketed value.
func reconstructHistory(in Input, h Horizon, now time.Time) []Point {
	valueByMonth := make(map[monthKey]float64)
	contribByMonth := make(map[monthKey]float64)

	sorted := make([]models.Asset, len(in.Assets))
	copy(sorted, in.Assets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var runningTotal, runningContrib float64
	for _, a := range sorted {
		key := keyOf(a.CreatedAt)
		runningTotal += a.Amount
		valueByMonth[key] = runningTotal
		if a.Origin == models.AssetOriginContribution {
			runningContrib += a.Amount
		}
		contribByMonth[key] = runningContrib
	}

	historyMonths := monthsBetween(in.FirstAssetDate, now)
	if limit := h.HistoryCap(); historyMonths > limit {
		historyMonths = limit
	}

	firstMonth := monthStart(in.FirstAssetDate)
	points := make([]Point, 0, historyMonths+1)

	// Assets created before the capped window still count: seed the running
	// values with everything that predates the first emitted month.
	windowStart := monthStart(now).AddDate(0, -historyMonths, 0)
	var lastValue, lastContrib float64
	for _, a := range sorted {
		if !monthStart(a.CreatedAt).Before(windowStart) {
			break
		}
		lastValue += a.Amount
		if a.Origin == models.AssetOriginContribution {
			lastContrib += a.Amount
		}
	}

	for i := -historyMonths; i <= 0; i++ {
		date := monthStart(now).AddDate(0, i, 0)
		key := keyOf(date)
		if v, ok := valueByMonth[key]; ok {
			lastValue = v
		}
		if c, ok := contribByMonth[key]; ok {
			lastContrib = c
		}

		p := Point{Date: date, MonthIndex: i}
		if !date.Before(firstMonth) {
			value := lastValue
			if i == 0 {
				value = in.TotalValue
			}
			contrib := lastContrib
			p.Value = &value
			p.Contributions = &contrib
		}
		points = append(points, p)
	}
	return points
}
