package model

// GoalMetrics holds the derived view of progress toward the savings goal.
// The pointer fields are nil when no goal is set, or (for ForecastDate)
// when there is not enough recent signal to project one.
type GoalMetrics struct {
	Today           int64
	Cumulative      int64
	Remaining       *int64
	ProgressPercent *float64
	ForecastDate    *string
}

// ChartPoint is one step of the cumulative savings chart.
// Date is a YYYY-MM-DD day key; Value is the running total through that day.
type ChartPoint struct {
	Date  string
	Value int64
}
