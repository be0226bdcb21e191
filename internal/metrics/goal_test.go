package metrics

import (
	"testing"
	"time"

	"temperance/internal/model"
)

func gainOn(t *testing.T, day string, amount int64) model.Gain {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		t.Fatalf("parse day %q: %v", day, err)
	}
	return model.Gain{
		Amount:    amount,
		Label:     "test",
		Category:  model.CategoryOther,
		CreatedAt: d.Add(12 * time.Hour).Format(time.RFC3339),
	}
}

func localDate(t *testing.T, day string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		t.Fatalf("parse day %q: %v", day, err)
	}
	return d.Add(12 * time.Hour)
}

func int64Ptr(v int64) *int64 { return &v }

func TestComputeGoalMetrics_EmptyNoGoal(t *testing.T) {
	m := ComputeGoalMetrics(nil, nil, time.Now())

	if m.Today != 0 || m.Cumulative != 0 {
		t.Fatalf("empty gains: today=%d cumulative=%d, want 0/0", m.Today, m.Cumulative)
	}
	if m.Remaining != nil || m.ProgressPercent != nil || m.ForecastDate != nil {
		t.Fatal("empty gains with nil goal: expected nil remaining/progress/forecast")
	}
}

func TestComputeGoalMetrics_Progress(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{gainOn(t, "2025-08-31", 100)}

	m := ComputeGoalMetrics(gains, int64Ptr(200), now)

	if m.Today != 100 {
		t.Fatalf("today = %d, want 100", m.Today)
	}
	if m.Cumulative != 100 {
		t.Fatalf("cumulative = %d, want 100", m.Cumulative)
	}
	if m.Remaining == nil || *m.Remaining != 100 {
		t.Fatalf("remaining = %v, want 100", m.Remaining)
	}
	if m.ProgressPercent == nil || *m.ProgressPercent != 50.0 {
		t.Fatalf("progress = %v, want 50.0", m.ProgressPercent)
	}
}

func TestComputeGoalMetrics_GoalAlreadyMet(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{
		gainOn(t, "2025-08-30", 100),
		gainOn(t, "2025-08-31", 100),
	}

	m := ComputeGoalMetrics(gains, int64Ptr(200), now)

	if m.Remaining == nil || *m.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", m.Remaining)
	}
	if m.ProgressPercent == nil || *m.ProgressPercent != 100.0 {
		t.Fatalf("progress = %v, want 100.0", m.ProgressPercent)
	}
	if m.ForecastDate != nil {
		t.Fatalf("forecast = %v, want nil for a met goal", *m.ForecastDate)
	}
}

func TestComputeGoalMetrics_ProgressCapsAt100(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{gainOn(t, "2025-08-30", 500)}

	m := ComputeGoalMetrics(gains, int64Ptr(200), now)

	if m.ProgressPercent == nil || *m.ProgressPercent != 100.0 {
		t.Fatalf("progress = %v, want capped 100.0", m.ProgressPercent)
	}
}

func TestComputeGoalMetrics_ProgressRoundsToOneDecimal(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{gainOn(t, "2025-08-31", 1)}

	m := ComputeGoalMetrics(gains, int64Ptr(3), now)

	// 1/3 = 33.333... -> 33.3
	if m.ProgressPercent == nil || *m.ProgressPercent != 33.3 {
		t.Fatalf("progress = %v, want 33.3", m.ProgressPercent)
	}
}

func TestComputeGoalMetrics_ForecastNeedsTwoActiveDays(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{gainOn(t, "2025-08-31", 100)}

	m := ComputeGoalMetrics(gains, int64Ptr(1000), now)

	if m.ForecastDate != nil {
		t.Fatalf("forecast = %v, want nil with one active day", *m.ForecastDate)
	}
}

func TestComputeGoalMetrics_Forecast(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{
		gainOn(t, "2025-08-30", 100),
		gainOn(t, "2025-08-31", 100),
	}

	m := ComputeGoalMetrics(gains, int64Ptr(1000), now)

	// Average over 7 days = 200/7; remaining 800 -> ceil(28.0) = 28 days out.
	if m.ForecastDate == nil {
		t.Fatal("forecast = nil, want a date")
	}
	if *m.ForecastDate != "2025/09/28" {
		t.Fatalf("forecast = %s, want 2025/09/28", *m.ForecastDate)
	}
}

func TestComputeGoalMetrics_OldGainsGiveNoForecastSignal(t *testing.T) {
	now := localDate(t, "2025-08-31")
	gains := []model.Gain{
		gainOn(t, "2025-07-01", 100),
		gainOn(t, "2025-07-02", 100),
	}

	m := ComputeGoalMetrics(gains, int64Ptr(1000), now)

	if m.ForecastDate != nil {
		t.Fatalf("forecast = %v, want nil when activity is outside the window", *m.ForecastDate)
	}
}

func TestBuildCumulativeChartPoints(t *testing.T) {
	gains := []model.Gain{
		gainOn(t, "2025-08-29", 300),
		gainOn(t, "2025-08-27", 100),
		gainOn(t, "2025-08-27", 50),
	}

	points := BuildCumulativeChartPoints(gains)

	if len(points) != 2 {
		t.Fatalf("got %d points, want 2 (one per active day)", len(points))
	}
	if points[0].Date != "2025-08-27" || points[0].Value != 150 {
		t.Fatalf("points[0] = %+v, want 2025-08-27/150", points[0])
	}
	if points[1].Date != "2025-08-29" || points[1].Value != 450 {
		t.Fatalf("points[1] = %+v, want 2025-08-29/450", points[1])
	}
}

func TestBuildCumulativeChartPoints_MatchesCumulative(t *testing.T) {
	gains := []model.Gain{
		gainOn(t, "2025-08-25", 120),
		gainOn(t, "2025-08-26", 80),
		gainOn(t, "2025-08-28", 200),
		gainOn(t, "2025-08-31", 40),
	}

	points := BuildCumulativeChartPoints(gains)
	m := ComputeGoalMetrics(gains, nil, localDate(t, "2025-08-31"))

	var prev int64
	for i, p := range points {
		if p.Value < prev {
			t.Fatalf("points not non-decreasing at %d: %d < %d", i, p.Value, prev)
		}
		prev = p.Value
	}
	if points[len(points)-1].Value != m.Cumulative {
		t.Fatalf("last point = %d, want cumulative %d", points[len(points)-1].Value, m.Cumulative)
	}
}

func TestBuildCategoryTotals(t *testing.T) {
	beverage := gainOn(t, "2025-08-30", 150)
	beverage.Category = model.CategoryBeverage
	food := gainOn(t, "2025-08-30", 500)
	food.Category = model.CategoryFood
	moreFood := gainOn(t, "2025-08-31", 180)
	moreFood.Category = model.CategoryFood

	totals := BuildCategoryTotals([]model.Gain{beverage, food, moreFood})

	if len(totals) != 2 {
		t.Fatalf("got %d categories, want 2", len(totals))
	}
	if totals[model.CategoryBeverage] != 150 {
		t.Fatalf("beverage = %d, want 150", totals[model.CategoryBeverage])
	}
	if totals[model.CategoryFood] != 680 {
		t.Fatalf("food = %d, want 680", totals[model.CategoryFood])
	}
}

func TestBuildCumulativeChartPoints_Empty(t *testing.T) {
	if points := BuildCumulativeChartPoints(nil); len(points) != 0 {
		t.Fatalf("got %d points for no gains, want 0", len(points))
	}
}
