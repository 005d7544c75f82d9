package finance

import "errors"

// Record kinds written by this package.
const (
	KindReport = "report"
	KindMetric = "metric"
)

// LineItem is a single named value from a report.
type LineItem struct {
	Name string

	// Value is in plain units, with scale words already applied.
	Value float64

	// Unit is the currency or unit symbol, "$" for dollar amounts and ""
	// for bare numbers.
	Unit string
}

// Report is a parsed financial report for one company and period.
type Report struct {
	Company string
	Period  string
	Items   []LineItem
}

// Trend directions.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Point is one period's value in a trend series.
type Point struct {
	Period string
	Value  float64
}

// Trend is a chronological metric series with an overall direction.
type Trend struct {
	Metric    string
	Points    []Point
	Direction string
}

// Comparison is one company's value for a compared metric.
type Comparison struct {
	Company string
	Value   float64
}

// Sentinel errors.
var (
	ErrMetricNotFound  = errors.New("metric not found")
	ErrZeroDenominator = errors.New("zero denominator")
	ErrEmptyReport     = errors.New("report has no company or metrics")
)
