// Package metrics computes goal progress, forecasts, and chart series from
// the gain log. Everything here is a pure function over slices.
package metrics

import (
	"math"
	"sort"
	"time"

	"temperance/internal/model"
)

const (
	// forecastWindowDays is the trailing window used for the daily average.
	forecastWindowDays = 7
	// minActiveDays is the minimum number of positive days in the window
	// before a forecast is considered meaningful.
	minActiveDays = 2
)

// ComputeGoalMetrics derives today's total, the cumulative total, and goal
// progress from the gain log. A nil or non-positive goal yields nil
// remaining/progress/forecast.
func ComputeGoalMetrics(gains []model.Gain, goalAmount *int64, now time.Time) model.GoalMetrics {
	todayKey := dayKey(now)

	var m model.GoalMetrics
	for _, g := range gains {
		m.Cumulative += g.Amount
		if gainDayKey(g) == todayKey {
			m.Today += g.Amount
		}
	}

	if goalAmount == nil || *goalAmount <= 0 {
		return m
	}
	goal := *goalAmount

	remaining := goal - m.Cumulative
	if remaining < 0 {
		remaining = 0
	}
	m.Remaining = &remaining

	progress := math.Min(100, math.Round(float64(m.Cumulative)/float64(goal)*1000)/10)
	m.ProgressPercent = &progress

	m.ForecastDate = estimateForecastDate(gains, now, remaining)
	return m
}

// estimateForecastDate projects the date the goal will be reached from the
// trailing 7-day average daily gain. Returns nil when the goal is already
// met or when fewer than 2 of the trailing 7 days have a positive total.
func estimateForecastDate(gains []model.Gain, now time.Time, remaining int64) *string {
	if remaining <= 0 {
		return nil
	}

	totals := buildDailyTotals(gains)
	window := make([]int64, 0, forecastWindowDays)
	active := 0
	for i := 0; i < forecastWindowDays; i++ {
		total := totals[dayKey(now.AddDate(0, 0, -i))]
		window = append(window, total)
		if total > 0 {
			active++
		}
	}
	if active < minActiveDays {
		return nil
	}

	var sum int64
	for _, v := range window {
		sum += v
	}
	dailyAverage := float64(sum) / float64(len(window))
	if dailyAverage <= 0 {
		return nil
	}

	daysNeeded := int(math.Ceil(float64(remaining) / dailyAverage))
	forecast := now.AddDate(0, 0, daysNeeded).Format("2006/01/02")
	return &forecast
}

// BuildCumulativeChartPoints groups gains by calendar day and emits the
// running total per day, ascending. Days without gains get no point, so the
// result is a non-decreasing step sequence ending at the cumulative total.
func BuildCumulativeChartPoints(gains []model.Gain) []model.ChartPoint {
	totals := buildDailyTotals(gains)

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]model.ChartPoint, 0, len(keys))
	var running int64
	for _, k := range keys {
		running += totals[k]
		points = append(points, model.ChartPoint{Date: k, Value: running})
	}
	return points
}

// BuildCategoryTotals sums gain amounts per category.
func BuildCategoryTotals(gains []model.Gain) map[model.Category]int64 {
	totals := make(map[model.Category]int64)
	for _, g := range gains {
		totals[g.Category] += g.Amount
	}
	return totals
}

// buildDailyTotals sums gain amounts per calendar day key.
func buildDailyTotals(gains []model.Gain) map[string]int64 {
	totals := make(map[string]int64)
	for _, g := range gains {
		totals[gainDayKey(g)] += g.Amount
	}
	return totals
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// gainDayKey extracts the calendar-day key from a gain's RFC3339 timestamp.
// Falls back to the raw prefix when the timestamp does not parse, so one bad
// record never breaks aggregation.
func gainDayKey(g model.Gain) string {
	if t, err := time.Parse(time.RFC3339, g.CreatedAt); err == nil {
		return dayKey(t.Local())
	}
	if len(g.CreatedAt) >= 10 {
		return g.CreatedAt[:10]
	}
	return g.CreatedAt
}
